package main

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

/* unpackSection parses one section's worth of object-program text
   (the H line through its E line) back into raw ObjectRecords, the
   inverse of packSection. It is used by the repack-only "optimize"
   path and by the round-trip tests: packing unpack's output must
   reproduce the packer's own canonical form byte-for-byte. */
func unpackSection(text string) ([]ObjectRecord, error) {
	var recs []ObjectRecord

	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		switch line[0] {
		case 'H':
			if len(line) < 19 {
				return nil, errors.Errorf("short H record: %q", line)
			}
			start, err := hexField(line[7:13])
			if err != nil {
				return nil, err
			}
			length, err := hexField(line[13:19])
			if err != nil {
				return nil, err
			}
			recs = append(recs, ObjectRecord{Kind: RecHeader, Name: strings.TrimRight(line[1:7], " "), Start: start, Length: length})

		case 'D':
			body := line[1:]
			for len(body) >= 12 {
				val, err := hexField(body[6:12])
				if err != nil {
					return nil, err
				}
				recs = append(recs, ObjectRecord{Kind: RecDefine, Name: strings.TrimRight(body[:6], " "), Value: val})
				body = body[12:]
			}

		case 'R':
			body := line[1:]
			for len(body) >= 6 {
				recs = append(recs, ObjectRecord{Kind: RecRefer, Name: strings.TrimRight(body[:6], " ")})
				body = body[6:]
			}

		case 'T':
			if len(line) < 9 {
				return nil, errors.Errorf("short T record: %q", line)
			}
			start, err := hexField(line[1:7])
			if err != nil {
				return nil, err
			}
			n, err := hexField(line[7:9])
			if err != nil {
				return nil, err
			}
			hex := line[9:]
			if len(hex) != n*2 {
				return nil, errors.Errorf("T record length mismatch: %q", line)
			}
			data := make([]byte, n)
			for i := range data {
				v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
				if err != nil {
					return nil, errors.Wrapf(err, "bad T record byte in %q", line)
				}
				data[i] = byte(v)
			}
			recs = append(recs, ObjectRecord{Kind: RecText, Start: start, Data: data})

		case 'M':
			if len(line) < 10 {
				return nil, errors.Errorf("short M record: %q", line)
			}
			start, err := hexField(line[1:7])
			if err != nil {
				return nil, err
			}
			halfBytes, err := hexField(line[7:9])
			if err != nil {
				return nil, err
			}
			sign := line[9]
			recs = append(recs, ObjectRecord{
				Kind: RecMod, Start: start, HalfBytes: halfBytes,
				Negative: sign == '-', Symbol: strings.TrimRight(line[10:], " "),
			})

		case 'E':
			rest := line[1:]
			if rest == "" {
				recs = append(recs, ObjectRecord{Kind: RecEnd})
				continue
			}
			start, err := hexField(rest)
			if err != nil {
				return nil, err
			}
			recs = append(recs, ObjectRecord{Kind: RecEnd, Start: start, HasStart: true})

		default:
			return nil, errors.Errorf("unrecognized record type %q", line[:1])
		}
	}

	return recs, nil
}

func hexField(s string) (int, error) {
	v, err := strconv.ParseInt(s, 16, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "bad hex field %q", s)
	}
	return int(v), nil
}
