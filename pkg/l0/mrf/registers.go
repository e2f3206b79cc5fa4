package mrf

import "time"

// Short address registers.
const (
	RegRXMCR   uint16 = 0x00
	RegPANIDL  uint16 = 0x01
	RegPANIDH  uint16 = 0x02
	RegSADRL   uint16 = 0x03
	RegSADRH   uint16 = 0x04
	RegEADR0   uint16 = 0x05
	RegTXNCON  uint16 = 0x1b
	RegPACON2  uint16 = 0x18
	RegSOFTRST uint16 = 0x2a
	RegTXSTBL  uint16 = 0x2e
	RegINTSTAT uint16 = 0x31
	RegINTCON  uint16 = 0x32
	RegRFCTL   uint16 = 0x36
	RegBBREG1  uint16 = 0x39
	RegBBREG2  uint16 = 0x3a
	RegBBREG6  uint16 = 0x3e
	RegCCAEDTH uint16 = 0x3f
)

// Long address registers and memory.
const (
	RegRFCON0  uint16 = 0x200
	RegRFCON1  uint16 = 0x201
	RegRFCON2  uint16 = 0x202
	RegRFCON3  uint16 = 0x203
	RegRFCON6  uint16 = 0x206
	RegRFCON7  uint16 = 0x207
	RegRFCON8  uint16 = 0x208
	RegSLPCON1 uint16 = 0x220

	// TxNormalFIFO is where the transmit frame image starts:
	// header length, frame length, header, payload.
	TxNormalFIFO uint16 = 0x000
	// RxFIFO is where a received frame starts: frame length, frame
	// including FCS, LQI and RSSI.
	RxFIFO uint16 = 0x300
	// RxFIFOSize is the capacity of the receive FIFO.
	RxFIFOSize = 0x90
)

// Register values.
const (
	ValueFullSoftwareReset   byte = 0x07
	ValuePACON2              byte = 0x98
	ValueTXSTBL              byte = 0x95
	ValueRFCON1              byte = 0x01
	ValueRFCON2PLLEnabled    byte = 0x80
	ValueRFCON6              byte = 0x90
	ValueRFCON7              byte = 0x80
	ValueRFCON8              byte = 0x10
	ValueSLPCON1             byte = 0x21
	ValueBBREG2EnergyOnly    byte = 0x80
	ValueCCAEDTH             byte = 0x60
	ValueBBREG6AppendRSSI    byte = 0x40
	ValueRFStateReset        byte = 0x04
	ValueRFStateOperating    byte = 0x00
	ValueTxPowerMinus30dB    byte = 3 << 6
	ValueTXNCONTrigger       byte = 0x01
	ValueRXMCRPromiscuous    byte = 0x01
	ValueRXMCRErrorMode      byte = 0x02
	ValueBBREG1RxDisabled    byte = 0x04
	ValueINTCONRxEnabledOnly byte = ^byte(1 << IntRX)
)

// INTSTAT and INTCON bits.
const (
	IntTXN = 0
	IntRX  = 3
)

// Channels.
const (
	MinChannel     uint8 = 11
	MaxChannel     uint8 = 26
	DefaultChannel uint8 = 11

	rfOptimize byte = 0x03
)

// RFStateResetDelay is the settle time after restarting the RF state machine.
const RFStateResetDelay = 200 * time.Microsecond

// Frame sizes.
const (
	// MinMPDUOverhead is the smallest header plus FCS of a data frame.
	MinMPDUOverhead = 9
	// MaxPayloadSize is the largest payload of a data frame.
	MaxPayloadSize = 127 - MinMPDUOverhead
)
