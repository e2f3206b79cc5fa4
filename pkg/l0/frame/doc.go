// Package frame encodes and decodes IEEE 802.15.4 MAC frame headers.
//
// The header is kept in a fixed size buffer whose layout is derived from the
// frame control field only. Changing an addressing mode or the sequence
// number suppression moves the following fields in place so the buffer is
// always a valid header prefix ready to be written to the radio.
package frame
