package env

import (
	"strconv"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

const appID = "mrf.go"

// MachineID returns an ID of the machine keyed by this application, so the
// machine ID itself never leaves the host. It's empty if the machine ID is
// not available.
func MachineID() string {
	id, err := machineid.ProtectedID(appID)
	if err != nil {
		glog.Warningf("machine id unavailable: %v", err)
		return ""
	}
	return id
}

// MachineExtendedAddress derives an extended address from MachineID. It
// returns 0 if the machine ID is not available.
func MachineExtendedAddress() uint64 {
	return extendedAddressFromID(MachineID())
}

// extendedAddressFromID takes the first 64 bits of a hex ID. The
// individual/group bit is cleared so the address is a unicast one.
func extendedAddressFromID(id string) uint64 {
	if len(id) > 16 {
		id = id[:16]
	}
	v, err := strconv.ParseUint(id, 16, 64)
	if err != nil {
		return 0
	}
	return v &^ (1 << 56)
}

// nodeIDFrom picks the node ID on a shared medium: the configured one, a
// prefix of the machine ID, or the extended address as a last resort.
func nodeIDFrom(configured, machineID string, ext uint64) string {
	switch {
	case configured != "":
		return configured
	case len(machineID) >= nodeIDLen:
		return "mrf-" + machineID[:nodeIDLen]
	case machineID != "":
		return "mrf-" + machineID
	}
	return strconv.FormatUint(ext, 16)
}

const nodeIDLen = 12
