package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Domain prefixes for content-addressed identity. The version suffix leaves
// room for algorithm migration without ambiguity.
const (
	DomainProgram = "minq/program/v1"
	DomainStep    = "minq/step/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents domain/data
// boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ProgramHash computes the content-addressed identity of a program. Two
// programs hash equal iff their canonical encodings are byte-identical, so
// the hash identifies what will execute, independent of source formatting.
func ProgramHash(p Program) string {
	return hashWithDomain(DomainProgram, MarshalCanonicalProgram(p))
}

// StepID computes the content-addressed identity of one executed step.
// It covers the run token, the logical sequence number, the instruction,
// and the observed value, so replaying a run reproduces the same IDs iff
// it reproduces the same execution.
func StepID(runToken string, seq int64, in Instruction, v Value) string {
	dst := []byte{'['}
	dst = appendCanonicalString(dst, runToken)
	dst = append(dst, ',')
	dst = strconv.AppendInt(dst, seq, 10)
	dst = append(dst, ',')
	dst = appendCanonicalInstruction(dst, in)
	dst = append(dst, ',')
	dst = append(dst, MarshalValue(v)...)
	dst = append(dst, ']')
	return hashWithDomain(DomainStep, dst)
}
