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

package handle_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lassandro/lc3sim/pkg/handle"
)

func TestInsertGetTake(t *testing.T) {
	var table handle.Table[string]

	a := table.Insert("a")
	b := table.Insert("b")

	require.NotZero(t, a)
	require.NotZero(t, b)
	require.NotEqual(t, a, b)

	v, ok := table.Get(a)
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	v, ok = table.Take(b)
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	_, ok = table.Get(b)
	assert.False(t, ok)

	_, ok = table.Take(b)
	assert.False(t, ok)

	assert.Equal(t, 1, table.Len())
}

func TestZeroHandle(t *testing.T) {
	var table handle.Table[int]
	table.Insert(1)

	_, ok := table.Get(0)
	assert.False(t, ok)

	_, ok = table.Take(0)
	assert.False(t, ok)
}

func TestStaleHandleAfterReuse(t *testing.T) {
	var table handle.Table[int]

	old := table.Insert(1)
	_, ok := table.Take(old)
	require.True(t, ok)

	fresh := table.Insert(2)
	require.NotEqual(t, old, fresh)

	_, ok = table.Get(old)
	assert.False(t, ok)

	v, ok := table.Get(fresh)
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestUnknownHandle(t *testing.T) {
	var table handle.Table[int]

	_, ok := table.Get(handle.Handle(12345))
	assert.False(t, ok)
}

func TestConcurrentInsert(t *testing.T) {
	var table handle.Table[int]
	var wg sync.WaitGroup

	handles := make([]handle.Handle, 64)

	for i := range handles {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()
			handles[i] = table.Insert(i)
		}(i)
	}

	wg.Wait()

	seen := map[handle.Handle]bool{}
	for i, h := range handles {
		require.False(t, seen[h])
		seen[h] = true

		v, ok := table.Get(h)
		require.True(t, ok)
		assert.Equal(t, i, v)
	}

	assert.Equal(t, len(handles), table.Len())
}
