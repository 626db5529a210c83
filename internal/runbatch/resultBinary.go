// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"encoding/gob"
	"errors"
	"io"
)

var (
	// ErrWriteGob is returned when writing the results to a binary format fails.
	ErrWriteGob = errors.New("failed to write binary results")
	// ErrReadGob is returned when reading results from a binary format fails.
	ErrReadGob = errors.New("failed to read binary results")
)

// resultRecord is the gob form of Result. Errors are flattened to their message.
type resultRecord struct {
	Label    string
	Status   ResultStatus
	ExitCode int
	Error    string
	StdOut   []byte
	StdErr   []byte
	JobID    string
	Children []resultRecord
}

func toRecords(results Results) []resultRecord {
	recs := make([]resultRecord, 0, len(results))

	for _, r := range results {
		rec := resultRecord{
			Label:    r.Label,
			Status:   r.Status,
			ExitCode: r.ExitCode,
			StdOut:   r.StdOut,
			StdErr:   r.StdErr,
			JobID:    r.JobID,
			Children: toRecords(r.Children),
		}

		if r.Error != nil {
			rec.Error = r.Error.Error()
		}

		recs = append(recs, rec)
	}

	return recs
}

func fromRecords(recs []resultRecord) Results {
	if len(recs) == 0 {
		return nil
	}

	results := make(Results, 0, len(recs))

	for _, rec := range recs {
		r := &Result{
			Label:    rec.Label,
			Status:   rec.Status,
			ExitCode: rec.ExitCode,
			StdOut:   rec.StdOut,
			StdErr:   rec.StdErr,
			JobID:    rec.JobID,
			Children: fromRecords(rec.Children),
		}

		if rec.Error != "" {
			r.Error = restoreError(rec.Error)
		}

		results = append(results, r)
	}

	return results
}

// WriteBinary saves the results so they can be shown later with ReadBinary.
func (r Results) WriteBinary(w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(toRecords(r)); err != nil {
		return errors.Join(ErrWriteGob, err)
	}

	return nil
}

// ReadBinary loads results saved with WriteBinary.
// Errors are restored from their message, as the package sentinel where one matches.
func ReadBinary(rd io.Reader) (Results, error) {
	var recs []resultRecord
	if err := gob.NewDecoder(rd).Decode(&recs); err != nil {
		return nil, errors.Join(ErrReadGob, err)
	}

	return fromRecords(recs), nil
}

// restoreError returns the sentinel with message msg, or a new error.
func restoreError(msg string) error {
	for _, sentinel := range []error{ErrResultChildrenHasError, ErrSkipOnError, ErrSkipIntentional, ErrCancelled} {
		if sentinel.Error() == msg {
			return sentinel
		}
	}

	return errors.New(msg)
}
