package cli

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

// Global JSON output flag
var jsonOutput bool

// Response is the standard JSON envelope for all CLI output.
type Response struct {
	OK       bool        `json:"ok"`
	Data     interface{} `json:"data,omitempty"`
	Error    *ErrorInfo  `json:"error,omitempty"`
	Warnings []Warning   `json:"warnings,omitempty"`
	Meta     *Meta       `json:"meta,omitempty"`
}

// ErrorInfo contains structured error information.
type ErrorInfo struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// Warning represents a non-fatal warning.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

// Meta contains metadata about the response.
type Meta struct {
	Count     int   `json:"count,omitempty"`
	ElapsedMs int64 `json:"elapsed_ms,omitempty"`
}

// outputJSON writes the response as indented JSON.
func outputJSON(w io.Writer, resp Response) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp)
}

// outputSuccess outputs a successful JSON response.
func outputSuccess(cmd *cobra.Command, data interface{}, meta *Meta) {
	outputJSON(cmd.OutOrStdout(), Response{
		OK:   true,
		Data: data,
		Meta: meta,
	})
}

// outputSuccessWithWarnings outputs a successful JSON response with warnings.
func outputSuccessWithWarnings(cmd *cobra.Command, data interface{}, warnings []Warning, meta *Meta) {
	outputJSON(cmd.OutOrStdout(), Response{
		OK:       true,
		Data:     data,
		Warnings: warnings,
		Meta:     meta,
	})
}

// outputError outputs an error JSON response.
func outputError(cmd *cobra.Command, code, message string, details interface{}, suggestion string) {
	outputJSON(cmd.OutOrStdout(), Response{
		OK: false,
		Error: &ErrorInfo{
			Code:       code,
			Message:    message,
			Details:    details,
			Suggestion: suggestion,
		},
	})
}

// isJSONOutput returns true if JSON output is enabled.
func isJSONOutput() bool {
	return jsonOutput
}

// handleError handles an error appropriately based on output mode.
// In JSON mode it prints the envelope and returns errReported so the exit
// status is still non-zero. In text mode it returns err for Execute to print.
func handleError(cmd *cobra.Command, code string, err error, suggestion string) error {
	if jsonOutput {
		outputError(cmd, code, err.Error(), nil, suggestion)
		return errReported
	}
	if suggestion != "" {
		return &hintedError{err: err, hint: suggestion}
	}
	return err
}

// hintedError carries a suggestion shown below the message in text mode.
type hintedError struct {
	err  error
	hint string
}

func (e *hintedError) Error() string { return e.err.Error() + "\n\n" + e.hint }

func (e *hintedError) Unwrap() error { return e.err }
