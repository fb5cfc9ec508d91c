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

package image_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lassandro/lc3sim/pkg/image"
)

func TestFromArrays(t *testing.T) {
	img := image.FromArrays(
		[]uint16{0x3000, 0x3001, 0x4000},
		[]uint16{0xF025, 0x1234, 0xBEEF},
	)

	assert.Equal(t, image.Image{
		{Addr: 0x3000, Word: 0xF025},
		{Addr: 0x3001, Word: 0x1234},
		{Addr: 0x4000, Word: 0xBEEF},
	}, img)
	assert.Equal(t, uint16(0x3000), img.Origin())
}

func TestFromArraysUneven(t *testing.T) {
	img := image.FromArrays([]uint16{1, 2, 3}, []uint16{4})
	assert.Len(t, img, 1)
	assert.Empty(t, image.FromArrays(nil, nil))
}

func TestReadObj(t *testing.T) {
	img, err := image.ReadObj(bytes.NewReader([]byte{
		0x30, 0x00, // origin
		0xF0, 0x25,
		0x12, 0x34,
	}))
	require.NoError(t, err)

	assert.Equal(t, image.Words(0x3000, 0xF025, 0x1234), img)
}

func TestReadObjErrors(t *testing.T) {
	_, err := image.ReadObj(bytes.NewReader(nil))
	assert.Error(t, err)

	_, err = image.ReadObj(bytes.NewReader([]byte{0x30, 0x00, 0xF0}))
	assert.Error(t, err)
}

func TestReadBin(t *testing.T) {
	img, err := image.ReadBin(bytes.NewReader([]byte{0x00, 0x01, 0xAB, 0xCD}))
	require.NoError(t, err)

	assert.Equal(t, image.Words(0x0000, 0x0001, 0xABCD), img)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	obj := filepath.Join(dir, "halt.obj")
	require.NoError(t, os.WriteFile(obj, []byte{0x30, 0x00, 0xF0, 0x25}, 0o644))

	img, err := image.Load(obj)
	require.NoError(t, err)
	assert.Equal(t, image.Words(0x3000, 0xF025), img)

	bin := filepath.Join(dir, "flat.BIN")
	require.NoError(t, os.WriteFile(bin, []byte{0x30, 0x00}, 0o644))

	img, err = image.Load(bin)
	require.NoError(t, err)
	assert.Equal(t, image.Words(0x0000, 0x3000), img)

	_, err = image.Load(filepath.Join(dir, "missing.obj"))
	assert.Error(t, err)
}

func TestReadOversized(t *testing.T) {
	full := make([]byte, 2<<16)

	img, err := image.ReadBin(bytes.NewReader(full))
	require.NoError(t, err)
	assert.Len(t, img, 1<<16)

	_, err = image.ReadBin(bytes.NewReader(append(full, 0x00, 0x00)))
	assert.Error(t, err)

	// Origin word plus a full address space still fits an object file
	img, err = image.ReadObj(bytes.NewReader(append(full, 0x00, 0x00)))
	require.NoError(t, err)
	assert.Len(t, img, 1<<16)

	_, err = image.ReadObj(bytes.NewReader(make([]byte, 2<<16+4)))
	assert.Error(t, err)
}
