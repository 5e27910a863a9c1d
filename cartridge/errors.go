package cartridge

import "errors"

// Sentinel errors for the ROM-malformed and unsupported-feature
// taxonomy: fatal at load time, surfaced with the offending field
// named by the wrapping fmt.Errorf call site.
var (
	ErrBadMagic          = errors.New("bad iNES magic")
	ErrReservedBits      = errors.New("reserved header bytes are non-zero")
	ErrNES2Unsupported   = errors.New("NES 2.0 headers are not supported")
	ErrUnsupportedMapper = errors.New("unsupported mapper number")
	ErrTruncatedROM      = errors.New("ROM file is truncated")
	ErrTrailingBytes     = errors.New("ROM file has trailing bytes")
)
