package printer

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// ESC/POS command bytes
var (
	escInit        = []byte{0x1b, 0x40}
	escCodePage860 = []byte{0x1b, 0x74, 0x03}
	escAlignLeft   = []byte{0x1b, 0x61, 0x00}
	escAlignCenter = []byte{0x1b, 0x61, 0x01}
	escBoldOn      = []byte{0x1b, 0x45, 0x01}
	escBoldOff     = []byte{0x1b, 0x45, 0x00}
	escDoubleOn    = []byte{0x1d, 0x21, 0x11}
	escDoubleOff   = []byte{0x1d, 0x21, 0x00}
	escFeedCut     = []byte{0x1b, 0x64, 0x04, 0x1d, 0x56, 0x00}
)

// EncodeESCPOS renders the receipt as an ESC/POS byte stream using the
// Portuguese code page. Characters outside it are replaced.
func EncodeESCPOS(r Receipt) ([]byte, error) {
	enc := encoding.ReplaceUnsupported(charmap.CodePage860.NewEncoder())

	var buf bytes.Buffer
	buf.Write(escInit)
	buf.Write(escCodePage860)

	for _, line := range r.Lines {
		if line.Align == AlignCenter {
			buf.Write(escAlignCenter)
		} else {
			buf.Write(escAlignLeft)
		}
		if line.Bold {
			buf.Write(escBoldOn)
		}
		if line.Double {
			buf.Write(escDoubleOn)
		}

		text, err := enc.String(line.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to encode line %q: %w", line.Text, err)
		}
		buf.WriteString(text)
		buf.WriteByte('\n')

		if line.Double {
			buf.Write(escDoubleOff)
		}
		if line.Bold {
			buf.Write(escBoldOff)
		}
	}

	buf.Write(escAlignLeft)
	buf.Write(escFeedCut)
	return buf.Bytes(), nil
}
