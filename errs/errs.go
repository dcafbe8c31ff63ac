// Copyright (c) Ilia Kravets, 2015. All rights reserved. PROVIDED "AS IS"
// WITHOUT ANY WARRANTY, EXPRESS OR IMPLIED. See LICENSE file for details.

// Package errs implements panic-based error checking.
//
// Deep call chains report failures with CheckE/Check; the API boundary recovers them
// with a deferred PassE(&err) and returns an ordinary error:
//
//	func (r *Runner) Run() (err error) {
//		defer errs.PassE(&err)
//		f, err := os.Open(name)
//		errs.CheckE(err)
//		...
//	}
package errs

import (
	"fmt"
	"runtime"
	"strconv"
)

type CheckerError interface {
	error
	OrigError() error
	Args() []interface{}
	Location() (file string, line int)
}

type checkerError struct {
	err  error
	args []interface{}
	file string
	line int
}

func newCheckerError(callerDepth int, err error, args []interface{}) *checkerError {
	e := &checkerError{
		err:  err,
		args: args,
	}
	_, e.file, e.line, _ = runtime.Caller(callerDepth + 1)
	return e
}
func (e *checkerError) Error() string {
	fileStr, lineStr := "<?>", "<?>"
	if e.file != "" {
		fileStr = e.file
	}
	if e.line != 0 {
		lineStr = strconv.Itoa(e.line)
	}
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("check failed at %s:%s (args=%v)", fileStr, lineStr, e.args)
}
func (e *checkerError) Unwrap() error {
	return e.err
}
func (e *checkerError) OrigError() error {
	return e.err
}
func (e *checkerError) Args() []interface{} {
	return e.args
}
func (e *checkerError) Location() (string, int) {
	return e.file, e.line
}

// CheckE panics with a CheckerError if err is not nil.
func CheckE(err error, args ...interface{}) {
	if err != nil {
		panic(newCheckerError(1, err, args))
	}
}

// Check panics with a CheckerError if cond is false.
func Check(cond bool, args ...interface{}) {
	if !cond {
		panic(newCheckerError(1, nil, args))
	}
}

// PassE must be deferred. It recovers a CheckerError raised by CheckE/Check and stores
// the original error (or the checker error itself for failed conditions) in *errptr.
// Any other panic is propagated.
func PassE(errptr *error) {
	r := recover()
	if r == nil {
		return
	}
	ce, ok := r.(*checkerError)
	if !ok {
		// XXX no way to keep stack trace when re-panicing :(
		panic(r)
	}
	if errptr == nil {
		return
	}
	if ce.err != nil {
		*errptr = ce.err
	} else {
		*errptr = ce
	}
}
