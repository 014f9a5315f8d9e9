package app

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// maxIDAttempts bounds how many generator calls one new id may take.
const maxIDAttempts = 16

// UUIDGenerator returns random version 4 identifiers.
func UUIDGenerator() IDGenerator {
	return uuid.NewString
}

// SequenceIDGenerator returns a generator that counts up from 1. It is safe for concurrent use.
func SequenceIDGenerator() IDGenerator {
	var n atomic.Uint64
	return func() string {
		return strconv.FormatUint(n.Add(1), 10)
	}
}
