// Package mrf drives the MRF24J40 IEEE 802.15.4 transceiver.
//
// IO turns register accesses into the command encoding of the chip and
// transfer chains on the bus engine. State tracks the transmit header and
// payload and what changed since the last send. MAC programs the chip and
// moves frames in and out of its FIFOs.
package mrf
