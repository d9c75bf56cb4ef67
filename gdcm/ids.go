package gdcm

import (
	"fmt"
	"strings"
)

// TransferSyntax is the native library's transfer syntax code.
// The ordinal of each constant is the value sent across the native boundary.
type TransferSyntax uint32

const (
	ImplicitVRLittleEndian TransferSyntax = iota
	ImplicitVRBigEndianPrivateGE
	ExplicitVRLittleEndian
	DeflatedExplicitVRLittleEndian
	ExplicitVRBigEndian
	JPEGBaselineProcess1
	JPEGExtendedProcess2_4
	JPEGExtendedProcess3_5
	JPEGSpectralSelectionProcess6_8
	JPEGFullProgressionProcess10_12
	JPEGLosslessProcess14
	JPEGLosslessProcess14_1
	JPEGLSLossless
	JPEGLSNearLossless
	JPEG2000Lossless
	JPEG2000
	JPEG2000Part2Lossless
	JPEG2000Part2
	RLELossless
	MPEG2MainProfile
	// ImplicitVRBigEndianACRNEMA has no UID. It marks ACR-NEMA era files
	// written big endian without a file meta header.
	ImplicitVRBigEndianACRNEMA
	WeirdPapyrus
	CTPrivateELE
	JPIPReferenced
	MPEG2MainProfileHighLevel
	MPEG4AVCH264HighProfileLevel4_1
	MPEG4AVCH264BDCompatibleHighProfileLevel4_1

	numTransferSyntaxes
)

type transferSyntaxEntry struct {
	name         string
	uid          string // empty for sentinels
	encapsulated bool
}

var transferSyntaxTable = [numTransferSyntaxes]transferSyntaxEntry{
	ImplicitVRLittleEndian:                      {"ImplicitVRLittleEndian", "1.2.840.10008.1.2", false},
	ImplicitVRBigEndianPrivateGE:                {"ImplicitVRBigEndianPrivateGE", "1.2.840.113619.5.2", false},
	ExplicitVRLittleEndian:                      {"ExplicitVRLittleEndian", "1.2.840.10008.1.2.1", false},
	DeflatedExplicitVRLittleEndian:              {"DeflatedExplicitVRLittleEndian", "1.2.840.10008.1.2.1.99", false},
	ExplicitVRBigEndian:                         {"ExplicitVRBigEndian", "1.2.840.10008.1.2.2", false},
	JPEGBaselineProcess1:                        {"JPEGBaselineProcess1", "1.2.840.10008.1.2.4.50", true},
	JPEGExtendedProcess2_4:                      {"JPEGExtendedProcess2_4", "1.2.840.10008.1.2.4.51", true},
	JPEGExtendedProcess3_5:                      {"JPEGExtendedProcess3_5", "1.2.840.10008.1.2.4.52", true},
	JPEGSpectralSelectionProcess6_8:             {"JPEGSpectralSelectionProcess6_8", "1.2.840.10008.1.2.4.53", true},
	JPEGFullProgressionProcess10_12:             {"JPEGFullProgressionProcess10_12", "1.2.840.10008.1.2.4.55", true},
	JPEGLosslessProcess14:                       {"JPEGLosslessProcess14", "1.2.840.10008.1.2.4.57", true},
	JPEGLosslessProcess14_1:                     {"JPEGLosslessProcess14_1", "1.2.840.10008.1.2.4.70", true},
	JPEGLSLossless:                              {"JPEGLSLossless", "1.2.840.10008.1.2.4.80", true},
	JPEGLSNearLossless:                          {"JPEGLSNearLossless", "1.2.840.10008.1.2.4.81", true},
	JPEG2000Lossless:                            {"JPEG2000Lossless", "1.2.840.10008.1.2.4.90", true},
	JPEG2000:                                    {"JPEG2000", "1.2.840.10008.1.2.4.91", true},
	JPEG2000Part2Lossless:                       {"JPEG2000Part2Lossless", "1.2.840.10008.1.2.4.92", true},
	JPEG2000Part2:                               {"JPEG2000Part2", "1.2.840.10008.1.2.4.93", true},
	RLELossless:                                 {"RLELossless", "1.2.840.10008.1.2.5", true},
	MPEG2MainProfile:                            {"MPEG2MainProfile", "1.2.840.10008.1.2.4.100", true},
	ImplicitVRBigEndianACRNEMA:                  {"ImplicitVRBigEndianACRNEMA", "", false},
	WeirdPapyrus:                                {"WeirdPapyrus", "1.2.840.10008.1.20", false},
	CTPrivateELE:                                {"CTPrivateELE", "1.3.46.670589.33.1.4.1", false},
	JPIPReferenced:                              {"JPIPReferenced", "1.2.840.10008.1.2.4.94", false},
	MPEG2MainProfileHighLevel:                   {"MPEG2MainProfileHighLevel", "1.2.840.10008.1.2.4.101", true},
	MPEG4AVCH264HighProfileLevel4_1:             {"MPEG4AVCH264HighProfileLevel4_1", "1.2.840.10008.1.2.4.102", true},
	MPEG4AVCH264BDCompatibleHighProfileLevel4_1: {"MPEG4AVCH264BDCompatibleHighProfileLevel4_1", "1.2.840.10008.1.2.4.103", true},
}

// ParseTransferSyntax returns the code for a transfer syntax UID.
// Trailing NUL and space padding, as found in DICOM UI values, is ignored.
func ParseTransferSyntax(uid string) (TransferSyntax, error) {
	uid = trimPadding(uid)
	if uid != "" {
		for ts := TransferSyntax(0); ts < numTransferSyntaxes; ts++ {
			if transferSyntaxTable[ts].uid == uid {
				return ts, nil
			}
		}
	}
	return 0, invalidIdentifier(uid)
}

// UID returns the canonical UID. ok is false for sentinel codes that have
// no UID and for codes outside the table.
func (ts TransferSyntax) UID() (uid string, ok bool) {
	if !ts.IsValid() {
		return "", false
	}
	uid = transferSyntaxTable[ts].uid
	return uid, uid != ""
}

// IsValid reports whether ts is one of the defined codes.
func (ts TransferSyntax) IsValid() bool {
	return ts < numTransferSyntaxes
}

// IsEncapsulated reports whether pixel data in this syntax is stored as
// compressed fragments.
func (ts TransferSyntax) IsEncapsulated() bool {
	return ts.IsValid() && transferSyntaxTable[ts].encapsulated
}

func (ts TransferSyntax) String() string {
	if !ts.IsValid() {
		return fmt.Sprintf("TransferSyntax(%d)", uint32(ts))
	}
	return transferSyntaxTable[ts].name
}

// TransferSyntaxes returns every defined transfer syntax code in wire order.
func TransferSyntaxes() []TransferSyntax {
	out := make([]TransferSyntax, 0, numTransferSyntaxes)
	for ts := TransferSyntax(0); ts < numTransferSyntaxes; ts++ {
		out = append(out, ts)
	}
	return out
}

// PhotometricInterpretation is the native library's photometric code.
type PhotometricInterpretation uint32

const (
	// PIUnknown has no defined term. The native library uses it for
	// objects whose photometric interpretation is missing or unrecognized.
	PIUnknown PhotometricInterpretation = iota
	Monochrome1
	Monochrome2
	PaletteColor
	RGB
	HSV
	ARGB
	CMYK
	YBRFull
	YBRFull422
	YBRPartial422
	YBRPartial420
	YBRICT
	YBRRCT

	numPhotometricInterpretations
)

type photometricEntry struct {
	name string
	term string
}

var photometricTable = [numPhotometricInterpretations]photometricEntry{
	PIUnknown:     {"Unknown", ""},
	Monochrome1:   {"Monochrome1", "MONOCHROME1"},
	Monochrome2:   {"Monochrome2", "MONOCHROME2"},
	PaletteColor:  {"PaletteColor", "PALETTE COLOR"},
	RGB:           {"RGB", "RGB"},
	HSV:           {"HSV", "HSV"},
	ARGB:          {"ARGB", "ARGB"},
	CMYK:          {"CMYK", "CMYK"},
	YBRFull:       {"YBRFull", "YBR_FULL"},
	YBRFull422:    {"YBRFull422", "YBR_FULL_422"},
	YBRPartial422: {"YBRPartial422", "YBR_PARTIAL_422"},
	YBRPartial420: {"YBRPartial420", "YBR_PARTIAL_420"},
	YBRICT:        {"YBRICT", "YBR_ICT"},
	YBRRCT:        {"YBRRCT", "YBR_RCT"},
}

// ParsePhotometricInterpretation returns the code for a defined term such
// as "MONOCHROME2". Padding is ignored, the comparison is exact otherwise.
func ParsePhotometricInterpretation(term string) (PhotometricInterpretation, error) {
	term = trimPadding(term)
	if term != "" {
		for pi := PhotometricInterpretation(0); pi < numPhotometricInterpretations; pi++ {
			if photometricTable[pi].term == term {
				return pi, nil
			}
		}
	}
	return 0, invalidIdentifier(term)
}

// Term returns the DICOM defined term. ok is false for PIUnknown and for
// codes outside the table.
func (pi PhotometricInterpretation) Term() (term string, ok bool) {
	if !pi.IsValid() {
		return "", false
	}
	term = photometricTable[pi].term
	return term, term != ""
}

// IsValid reports whether pi is one of the defined codes.
func (pi PhotometricInterpretation) IsValid() bool {
	return pi < numPhotometricInterpretations
}

// IsMonochrome reports whether pi is MONOCHROME1 or MONOCHROME2.
func (pi PhotometricInterpretation) IsMonochrome() bool {
	return pi == Monochrome1 || pi == Monochrome2
}

func (pi PhotometricInterpretation) String() string {
	if !pi.IsValid() {
		return fmt.Sprintf("PhotometricInterpretation(%d)", uint32(pi))
	}
	return photometricTable[pi].name
}

// PhotometricInterpretations returns every defined photometric code in wire order.
func PhotometricInterpretations() []PhotometricInterpretation {
	out := make([]PhotometricInterpretation, 0, numPhotometricInterpretations)
	for pi := PhotometricInterpretation(0); pi < numPhotometricInterpretations; pi++ {
		out = append(out, pi)
	}
	return out
}

func trimPadding(s string) string {
	return strings.Trim(s, " \x00")
}
