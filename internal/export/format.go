package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Format selects the encoding of a Raster.
type Format string

const (
	FormatASCII   Format = "ascii"
	FormatJSON    Format = "json"
	FormatMsgPack Format = "msgpack"
)

// ParseFormat maps a configuration value to a Format. The empty string is
// FormatASCII.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatASCII:
		return FormatASCII, nil
	case FormatJSON, FormatMsgPack:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Filename is the conventional file name of a raster in format f.
func Filename(f Format, stepSize, columns, rows int) string {
	name := ASCIIGridFilename(stepSize, columns, rows)
	switch f {
	case FormatJSON:
		return strings.TrimSuffix(name, ".txt") + ".json"
	case FormatMsgPack:
		return strings.TrimSuffix(name, ".txt") + ".msgpack"
	}
	return name
}

// Write encodes r to w in format f.
func Write(w io.Writer, r Raster, f Format) error {
	switch f {
	case FormatASCII:
		return r.WriteASCII(w)
	case FormatJSON:
		return json.NewEncoder(w).Encode(r)
	case FormatMsgPack:
		encoder := msgpack.NewEncoder(w)
		encoder.SetCustomStructTag("json")
		return encoder.Encode(r)
	}
	return fmt.Errorf("unknown output format %q", f)
}
