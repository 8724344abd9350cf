package ir

import (
	"math"

	"github.com/tiro-lang/tiro/internal/strtab"
)

// ConstantKind tags the active member of Constant.
type ConstantKind uint8

const (
	ConstantInteger ConstantKind = iota
	ConstantFloat
	ConstantString
	ConstantSymbol
	ConstantNull
	ConstantTrue
	ConstantFalse
)

func (k ConstantKind) String() string {
	switch k {
	case ConstantInteger:
		return "Integer"
	case ConstantFloat:
		return "Float"
	case ConstantString:
		return "String"
	case ConstantSymbol:
		return "Symbol"
	case ConstantNull:
		return "Null"
	case ConstantTrue:
		return "True"
	case ConstantFalse:
		return "False"
	default:
		return "Unknown"
	}
}

// Constant is a compile-time-known value. Unlike the other sum types in this
// package it is represented as a single tagged struct rather than an
// interface with one type per variant: Constant needs a custom equality and
// hash (NaN canonicalization, spec §3/§9) that is far simpler to implement
// once on a flat struct than to thread through seven interface variants.
type Constant struct {
	Kind ConstantKind

	Int   int64
	Float float64
	Str   strtab.InternedString // used by ConstantString and ConstantSymbol
}

// NewIntegerConstant builds an Integer constant.
func NewIntegerConstant(v int64) Constant { return Constant{Kind: ConstantInteger, Int: v} }

// NewFloatConstant builds a Float constant.
func NewFloatConstant(v float64) Constant { return Constant{Kind: ConstantFloat, Float: v} }

// NewStringConstant builds a String constant.
func NewStringConstant(v strtab.InternedString) Constant {
	return Constant{Kind: ConstantString, Str: v}
}

// NewSymbolConstant builds a Symbol constant.
func NewSymbolConstant(v strtab.InternedString) Constant {
	return Constant{Kind: ConstantSymbol, Str: v}
}

// NullConstant is the singleton Null constant.
var NullConstant = Constant{Kind: ConstantNull}

// TrueConstant is the singleton True constant.
var TrueConstant = Constant{Kind: ConstantTrue}

// FalseConstant is the singleton False constant.
var FalseConstant = Constant{Kind: ConstantFalse}

// Equal compares two constants for value-numbering purposes. All NaN bit
// patterns compare equal to each other, matching spec §3/§9: this is what
// makes Constant safe to use as a map key in optimization passes even
// though IEEE-754 float equality would normally make NaN != NaN.
func (c Constant) Equal(other Constant) bool {
	if c.Kind != other.Kind {
		return false
	}
	switch c.Kind {
	case ConstantInteger:
		return c.Int == other.Int
	case ConstantFloat:
		if math.IsNaN(c.Float) && math.IsNaN(other.Float) {
			return true
		}
		return c.Float == other.Float
	case ConstantString, ConstantSymbol:
		return c.Str == other.Str
	default: // Null, True, False: single inhabitant per kind
		return true
	}
}

// canonicalNaNBits is the bit pattern every NaN hashes to, so that any two
// NaN payloads land in the same hash bucket.
const canonicalNaNBits = 0x7FF8000000000000

// Hash returns a hash of c consistent with Equal: equal constants (under the
// NaN-canonicalizing rule) always hash identically.
func (c Constant) Hash() uint64 {
	h := fnvOffset
	h = fnvMix(h, uint64(c.Kind))
	switch c.Kind {
	case ConstantInteger:
		h = fnvMix(h, uint64(c.Int))
	case ConstantFloat:
		bits := math.Float64bits(c.Float)
		if math.IsNaN(c.Float) {
			bits = canonicalNaNBits
		} else if c.Float == 0 {
			bits = 0 // +0 and -0 are Equal, so they must hash alike
		}
		h = fnvMix(h, bits)
	case ConstantString, ConstantSymbol:
		h = fnvMix(h, uint64(c.Str))
	}
	return h
}

const fnvOffset = 14695981039346656037
const fnvPrime = 1099511628211

func fnvMix(h, v uint64) uint64 {
	for i := 0; i < 8; i++ {
		h ^= v & 0xFF
		h *= fnvPrime
		v >>= 8
	}
	return h
}
