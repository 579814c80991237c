package oids

// This package centralizes the SNMP OIDs printinfo queries. The constants
// mirror the Printer MIB (RFC 3805) and MIB-II so callers never build dotted
// strings by hand. The set is closed: nothing else is ever sent to a device.

const (
	// --- MIB-II System (RFC 1213) ---

	// SysDescr reports a human-readable system description string. Printers
	// put the factory/model identifier here.
	SysDescr = "1.3.6.1.2.1.1.1.0"
)

const (
	// --- Printer MIB (RFC 3805), scalar reads for device 1, first entry ---

	// PrtGeneralSerialNumber (prtGeneralSerialNumber.1) is the canonical serial.
	PrtGeneralSerialNumber = "1.3.6.1.2.1.43.5.1.1.17.1"
	// PrtOutputVendorNameSlot1 is prtOutputVendorName.1.1.
	PrtOutputVendorNameSlot1 = "1.3.6.1.2.1.43.9.2.1.8.1.1"
	// PrtMarkerLifeCountSlot1 is prtMarkerLifeCount.1.1, the page counter.
	PrtMarkerLifeCountSlot1 = "1.3.6.1.2.1.43.10.2.1.4.1.1"

	PrtMarkerSuppliesMaxCapSlot1 = "1.3.6.1.2.1.43.11.1.1.8.1.1"
	PrtMarkerSuppliesLevelSlot1  = "1.3.6.1.2.1.43.11.1.1.9.1.1"

	// PrtMarkerColorantValueSlot1 holds the colorant name ("cyan", "black")
	// of the first colorant entry.
	PrtMarkerColorantValueSlot1 = "1.3.6.1.2.1.43.12.1.1.4.1.1"
)

const (
	// --- prtMarkerSuppliesTable columns for hrDeviceIndex 1 (walk roots) ---

	PrtMarkerSuppliesDescColumn   = "1.3.6.1.2.1.43.11.1.1.6.1"
	PrtMarkerSuppliesMaxCapColumn = "1.3.6.1.2.1.43.11.1.1.8.1"
	PrtMarkerSuppliesLevelColumn  = "1.3.6.1.2.1.43.11.1.1.9.1"
)

// Scalars lists every scalar OID in the closed set, in a stable order.
func Scalars() []string {
	return []string{
		SysDescr,
		PrtGeneralSerialNumber,
		PrtOutputVendorNameSlot1,
		PrtMarkerLifeCountSlot1,
		PrtMarkerSuppliesMaxCapSlot1,
		PrtMarkerSuppliesLevelSlot1,
		PrtMarkerColorantValueSlot1,
	}
}

// Columns lists the walk roots used for bulk consumable enumeration.
func Columns() []string {
	return []string{
		PrtMarkerSuppliesDescColumn,
		PrtMarkerSuppliesMaxCapColumn,
		PrtMarkerSuppliesLevelColumn,
	}
}
