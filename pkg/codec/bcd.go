/*
   BasicDisk - BASIC disk image filesystem engine
   Copyright (c) 2021, Alexander Vollschwitz

   This file is part of BasicDisk.

   BasicDisk is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   BasicDisk is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with BasicDisk. If not, see <http://www.gnu.org/licenses/>.
*/

package codec

import (
	"time"
)

// ToBCD encodes v in [0, 99] as packed BCD.
func ToBCD(v int) byte {
	if v < 0 {
		v = 0
	}
	v %= 100
	return byte(v/10<<4 | v%10)
}

// FromBCD decodes a packed BCD byte. The second return value is false if
// either nibble is not a decimal digit.
func FromBCD(b byte) (int, bool) {
	hi, lo := int(b>>4), int(b&0x0F)
	return hi*10 + lo, hi < 10 && lo < 10
}

// bcdYear maps a two digit year into 1980 .. 2079
func bcdYear(yy int) int {
	if yy >= 80 {
		return 1900 + yy
	}
	return 2000 + yy
}

// DecodeBCDDate decodes a BCD date of the form yy, month<<4 | weekday, dd.
// Returns the zero time for invalid dates.
func DecodeBCDDate(b []byte) time.Time {
	if len(b) < 3 {
		return time.Time{}
	}
	yy, ok1 := FromBCD(b[0])
	month := int(b[1] >> 4)
	dd, ok2 := FromBCD(b[2])
	if !ok1 || !ok2 || month < 1 || month > 12 || dd < 1 || dd > 31 {
		return time.Time{}
	}
	return time.Date(bcdYear(yy), time.Month(month), dd, 0, 0, 0, 0, time.UTC)
}

// EncodeBCDDate is the inverse of DecodeBCDDate.
func EncodeBCDDate(t time.Time) []byte {
	return []byte{
		ToBCD(t.Year() % 100),
		byte(t.Month())<<4 | byte(t.Weekday()),
		ToBCD(t.Day()),
	}
}

// DecodeBCDTime decodes a BCD time of the form hh, mm, ss.
func DecodeBCDTime(b []byte) (int, int, int, bool) {
	if len(b) < 3 {
		return 0, 0, 0, false
	}
	hh, ok1 := FromBCD(b[0])
	mm, ok2 := FromBCD(b[1])
	ss, ok3 := FromBCD(b[2])
	if !ok1 || !ok2 || !ok3 || hh > 23 || mm > 59 || ss > 59 {
		return 0, 0, 0, false
	}
	return hh, mm, ss, true
}

//
func EncodeBCDTime(t time.Time) []byte {
	return []byte{ToBCD(t.Hour()), ToBCD(t.Minute()), ToBCD(t.Second())}
}
