package errors

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
)

type PipelineError struct {
	Stage   string
	Filter  string
	Column  string
	Message string
}

func NewPipelineError(msg string) *PipelineError {
	return &PipelineError{
		Message: msg,
		Stage:   "",
		Filter:  "",
		Column:  "",
	}
}

func WrapPipelineError(e error) *PipelineError {
	if e == nil {
		return nil
	}

	if pipelineError, ok := e.(*PipelineError); ok {
		return pipelineError
	}

	return &PipelineError{
		Message: e.Error(),
		Stage:   "",
		Filter:  "",
		Column:  "",
	}
}

// NewPipelineErrorf creates a new PipelineError with a formatted message
func NewPipelineErrorf(format string, args ...any) *PipelineError {
	// Handle error wrapping directive %w
	// If one of the args is an error and format contains %w,
	// extract the error message and replace %w with %v
	for i, arg := range args {
		if err, ok := arg.(error); ok && strings.Contains(format, "%w") {
			format = strings.Replace(format, "%w", "%v", 1)
			args[i] = err.Error()
		}
	}

	return &PipelineError{
		Message: fmt.Sprintf(format, args...),
		Stage:   "",
		Filter:  "",
		Column:  "",
	}
}

func (e *PipelineError) Error() string {
	path := []string{}
	if e.Stage != "" {
		path = append(path, fmt.Sprintf("stage '%s'", e.Stage))
	}
	if e.Filter != "" {
		path = append(path, fmt.Sprintf("filter '%s'", e.Filter))
	}
	if e.Column != "" {
		path = append(path, fmt.Sprintf("column '%s'", e.Column))
	}

	if len(path) == 0 {
		return e.Message
	}

	return strings.Join(path, " -> ") + ": " + e.Message
}

func (e *PipelineError) AddStage(stageName string) *PipelineError {
	e.Stage = stageName
	return e
}

func (e *PipelineError) AddFilter(filterKey string) *PipelineError {
	e.Filter = filterKey
	return e
}

func (e *PipelineError) AddColumn(column string) *PipelineError {
	e.Column = column
	return e
}

func (e *PipelineError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusBadRequest, e.Error()).AddMetaValue("stage_name", e.Stage).AddMetaValue("filter_key", e.Filter).AddMetaValue("column", e.Column)
}

func IsPipelineError(err error) bool {
	_, ok := err.(*PipelineError)
	return ok
}
