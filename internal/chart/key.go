package chart

import (
	"hash/crc64"
	"strconv"
)

var crcTable = crc64.MakeTable(crc64.ISO)

// Key is the content key of a block: the CRC-64 of its text.
//
// The checksum uses the reflected ISO polynomial with a zero initial value and
// no final xor, so "123456789" hashes to 0x46A5A9388A5BEFFE.
type Key uint64

// KeyOf returns the content key of code.
func KeyOf(code string) Key {
	// crc64.Update inverts the register on entry and exit.
	return Key(^crc64.Update(^uint64(0), crcTable, []byte(code)))
}

// String returns the decimal form used in file names and image references.
func (k Key) String() string {
	return strconv.FormatUint(uint64(k), 10)
}

// ParseKey parses the decimal form produced by [Key.String].
func ParseKey(s string) (Key, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}

	return Key(v), nil
}
