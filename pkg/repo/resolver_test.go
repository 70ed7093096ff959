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

package repo

import (
	"testing"
)

func TestResolve(t *testing.T) {

	tests := []struct {
		ref, repo string
		want      string
		fail      bool
	}{
		{ref: "/images/a.d88", want: "/images/a.d88"},
		{ref: "a.d88", repo: "/repo", want: "a.d88"},
		{ref: "repo://a.d88", repo: "/repo", want: "/repo/a.d88"},
		{ref: "repo://games/b.d88", repo: "/repo", want: "/repo/games/b.d88"},
		{ref: "repo://../../etc/passwd", repo: "/repo", want: "/repo/etc/passwd"},
		{ref: "repo://a.d88", fail: true},
		{ref: "repo://", repo: "/repo", fail: true},
	}

	for _, tc := range tests {
		t.Run(tc.ref, func(t *testing.T) {
			got, err := Resolve(tc.ref, tc.repo)
			if tc.fail {
				if err == nil {
					t.Errorf("expected error, got %s", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("want %s, got %s", tc.want, got)
			}
		})
	}
}
