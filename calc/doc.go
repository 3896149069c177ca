// Package calc evaluates expressions that mix numbers, physical
// units, and date/time values, such as "10 kg * 9.81 m/s^2" or
// "2024-06-08 + 5 month", with an "in" operator for explicit unit
// conversion ("100 W * 2 h in Wh").
//
// The pipeline is text → tokens → tree → value → formatted string.
// Magnitudes are arbitrary-precision decimals (cockroachdb/apd) held
// in SI base units, paired with a vector of dimension exponents;
// addition and conversion require equal vectors, multiplication and
// division combine them. Absolute date/times are Instants, distinct
// from durations: an instant minus an instant is a duration, an
// instant plus an instant is an error.
//
// Driver wraps the pipeline for interactive use, re-evaluating on
// every input change and holding on to the last good result while the
// text is mid-edit.
package calc
