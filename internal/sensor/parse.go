package sensor

import (
	"errors"
	"time"
)

// Heart Rate Measurement characteristic flag bits (Bluetooth GATT 0x2A37).
const (
	flagRate16Bit       = 1 << 0
	flagContactDetected = 1 << 1
	flagContactSupport  = 1 << 2
	flagEnergyExpended  = 1 << 3
	flagRRPresent       = 1 << 4
)

var errShortPacket = errors.New("sensor: heart rate measurement packet too short")

// ParseMeasurement decodes a Heart Rate Measurement notification value.
// The rate is 8 or 16 bit depending on the format flag; contact status
// is only meaningful when the sensor declares contact support; RR
// intervals follow in units of 1/1024 s, after an optional two-byte
// energy-expended field.
func ParseMeasurement(buf []byte, at time.Time) (Reading, error) {
	if len(buf) < 2 {
		return Reading{}, errShortPacket
	}

	flags := buf[0]
	r := Reading{At: at, Contact: ContactUnknown}
	off := 1

	if flags&flagRate16Bit != 0 {
		if len(buf) < 3 {
			return Reading{}, errShortPacket
		}
		r.BPM = uint(buf[1]) | uint(buf[2])<<8
		off = 3
	} else {
		r.BPM = uint(buf[1])
		off = 2
	}

	if flags&flagContactSupport != 0 {
		if flags&flagContactDetected != 0 {
			r.Contact = ContactDetected
		} else {
			r.Contact = ContactLost
		}
	}

	if flags&flagEnergyExpended != 0 {
		if len(buf) < off+2 {
			return Reading{}, errShortPacket
		}
		off += 2
	}

	if flags&flagRRPresent != 0 {
		for ; off+1 < len(buf); off += 2 {
			raw := uint(buf[off]) | uint(buf[off+1])<<8
			rr := time.Duration(raw) * time.Second / 1024
			r.RR = append(r.RR, rr)
		}
	}

	return r, nil
}
