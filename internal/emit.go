package internal

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrInvalidStatus reports a response whose status code left the valid
// HTTP range. Validation happens here at the emission boundary so builders
// stay free to hold partial state.
var ErrInvalidStatus = errors.New("response status code out of range")

// Respond writes the whole response: headers first, then the body.
func Respond(w http.ResponseWriter, resp *Response) error {
	if err := SendHeaders(w, resp); err != nil {
		return err
	}
	return SendBody(w, resp)
}

// SendHeaders validates the status code, copies the response headers onto
// the transport and commits the status line. Hosts with a split lifecycle
// call this during their load phase, before any body output is allowed.
func SendHeaders(w http.ResponseWriter, resp *Response) error {
	if resp == nil {
		return errors.New("emit: nil response")
	}
	if resp.status < 100 || resp.status > 599 {
		return fmt.Errorf("emit: %w: %d", ErrInvalidStatus, resp.status)
	}
	for name, values := range resp.header {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	w.WriteHeader(resp.status)
	return nil
}

// SendBody rewinds the response body and streams it to w. A nil body is a
// valid empty response. The rewind makes emission independent of any reads
// middleware performed on the stream.
func SendBody(w io.Writer, resp *Response) error {
	if resp == nil {
		return errors.New("emit: nil response")
	}
	if resp.body == nil {
		return nil
	}
	if _, err := resp.body.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("emit: rewind body: %w", err)
	}
	if _, err := io.Copy(w, resp.body); err != nil {
		return fmt.Errorf("emit: write body: %w", err)
	}
	return nil
}
