// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package image holds program images: address/word pairs that get stored
// into simulator memory.
package image

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

type Cell struct {
	Addr uint16
	Word uint16
}

// Image is an ordered list of cells. Order only matters when an address
// repeats, in which case the last cell wins.
type Image []Cell

// FromArrays pairs addrs[i] with words[i]. Both slices must be the same
// length; extra entries in the longer one are ignored.
func FromArrays(addrs, words []uint16) Image {
	n := len(addrs)
	if len(words) < n {
		n = len(words)
	}

	img := make(Image, n)
	for i := 0; i < n; i++ {
		img[i] = Cell{Addr: addrs[i], Word: words[i]}
	}

	return img
}

// Words returns cells for a contiguous block starting at origin.
func Words(origin uint16, words ...uint16) Image {
	img := make(Image, len(words))
	for i, word := range words {
		img[i] = Cell{Addr: origin + uint16(i), Word: word}
	}

	return img
}

// Origin is the address of the first cell, or 0 for an empty image.
func (img Image) Origin() uint16 {
	if len(img) == 0 {
		return 0
	}

	return img[0].Addr
}

// readWords reads big-endian words until EOF. More than limit words is an
// error, since the image could not fit in memory.
func readWords(reader io.Reader, limit int) ([]uint16, error) {
	var words []uint16

	r := bufio.NewReader(reader)
	scratch := make([]byte, 2)

	for {
		n, err := io.ReadFull(r, scratch)

		if err == io.EOF {
			return words, nil
		} else if err == io.ErrUnexpectedEOF {
			return nil, errors.Errorf("odd trailing byte after %d words", len(words))
		} else if err != nil {
			return nil, errors.Wrap(err, "reading image")
		} else if n != 2 {
			return nil, errors.New("short read")
		}

		if len(words) == limit {
			return nil, errors.Errorf("image exceeds %d words", limit)
		}

		words = append(words, binary.BigEndian.Uint16(scratch))
	}
}

// ReadObj reads an object file: a big-endian origin word followed by the
// words to be stored from that origin onwards.
func ReadObj(reader io.Reader) (Image, error) {
	// Origin word plus a full address space
	words, err := readWords(reader, 1<<16+1)
	if err != nil {
		return nil, errors.Wrap(err, "obj")
	}

	if len(words) == 0 {
		return nil, errors.New("obj: missing origin")
	}

	return Words(words[0], words[1:]...), nil
}

// ReadBin reads a flat big-endian memory image starting at x0000.
func ReadBin(reader io.Reader) (Image, error) {
	words, err := readWords(reader, 1<<16)
	if err != nil {
		return nil, errors.Wrap(err, "bin")
	}

	return Words(0x0000, words...), nil
}

// Load picks a reader by file extension: .bin is a flat image, anything
// else is treated as an object file.
func Load(path string) (Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening image")
	}

	defer file.Close()

	if strings.EqualFold(filepath.Ext(path), ".bin") {
		return ReadBin(file)
	}

	return ReadObj(file)
}
