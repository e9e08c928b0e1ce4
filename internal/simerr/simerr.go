/*
 * memsim - Process-wide error taxonomy.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package simerr holds the simulator-wide error code enum and the
// sentinel errors that carry it. Every core operation either returns nil
// (ErrNone) or one of these wrapped sentinels; nothing panics and nothing
// retries.
package simerr

import (
	"errors"
	"fmt"
)

// Code is the process-wide error taxonomy from the interface spec.
type Code int

const (
	ErrNone Code = iota
	ErrBadParam
	ErrAddr
	ErrMem
	ErrIO
	ErrSize
)

func (c Code) String() string {
	switch c {
	case ErrNone:
		return "ErrNone"
	case ErrBadParam:
		return "ErrBadParam"
	case ErrAddr:
		return "ErrAddr"
	case ErrMem:
		return "ErrMem"
	case ErrIO:
		return "ErrIO"
	case ErrSize:
		return "ErrSize"
	default:
		return "ErrUnknown"
	}
}

// codedError pairs a Code with a descriptive message so errors.Is still
// matches the sentinel below while %w-wrapping keeps the detail.
type codedError struct {
	code Code
	msg  string
}

func (e *codedError) Error() string { return e.code.String() + ": " + e.msg }

func (e *codedError) Is(target error) bool {
	t, ok := target.(*codedError)
	return ok && t.code == e.code
}

// Sentinel base errors, matched with errors.Is.
var (
	BadParam = &codedError{code: ErrBadParam, msg: "bad parameter"}
	Addr     = &codedError{code: ErrAddr, msg: "invalid address"}
	Mem      = &codedError{code: ErrMem, msg: "memory capacity exceeded"}
	IO       = &codedError{code: ErrIO, msg: "I/O failure"}
	Size     = &codedError{code: ErrSize, msg: "size mismatch"}
)

// Wrap annotates a sentinel with a detail message, keeping errors.Is(err,
// sentinel) true for callers that only care about the code.
func Wrap(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// CodeOf extracts the Code carried by err, or ErrNone if err is nil and
// ErrBadParam if err does not originate from this package.
func CodeOf(err error) Code {
	if err == nil {
		return ErrNone
	}
	var ce *codedError
	if errors.As(err, &ce) {
		return ce.code
	}
	return ErrBadParam
}
