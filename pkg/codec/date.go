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

// ParseDate reads a packed binary date stamp relative to 1980:
//   bits 0-4: day of month, 1-31
//   bits 5-8: month, 1-12
//   bits 9-15: years since 1980
// Day or month 0 yield the zero time, so that time.Time.IsZero() can be used.
func ParseDate(input uint16) time.Time {
	day := input & 0x1F
	month := input & 0x1E0 >> 5
	year := input & 0xFE00 >> 9

	if day == 0 || month == 0 {
		return time.Time{}
	}
	return time.Date(1980+int(year), time.Month(month), int(day),
		0, 0, 0, 0, time.UTC)
}

// ParseTime reads a packed binary time stamp with 2 second granularity:
//   bits 0-4: seconds / 2
//   bits 5-10: minutes
//   bits 11-15: hours
// Returned hour, minute, and second are clipped to 23:59:59.
func ParseTime(input uint16) (int, int, int) {
	seconds := int(input&0x1F) * 2
	minutes := int(input & 0x7E0 >> 5)
	hours := int(input & 0xF800 >> 11)
	if hours > 23 || minutes > 59 || seconds > 59 {
		return 23, 59, 59
	}
	return hours, minutes, seconds
}

// PackDate is the inverse of ParseDate. Dates before 1980 pack to 0.
func PackDate(t time.Time) uint16 {
	if t.IsZero() || t.Year() < 1980 || t.Year() > 1980+127 {
		return 0
	}
	return uint16(t.Year()-1980)<<9 | uint16(t.Month())<<5 | uint16(t.Day())
}

//
func PackTime(t time.Time) uint16 {
	return uint16(t.Hour())<<11 | uint16(t.Minute())<<5 | uint16(t.Second()/2)
}

// Combine merges a date and a time of day.
func Combine(date time.Time, hh, mm, ss int) time.Time {
	if date.IsZero() {
		return date
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hh, mm, ss, 0,
		time.UTC)
}
