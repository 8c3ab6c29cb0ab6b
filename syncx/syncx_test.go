// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package syncx

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"

	"go.astrophena.name/addheader/testutil"
)

func TestProtected(t *testing.T) {
	t.Parallel()

	t.Run("read access", func(t *testing.T) {
		p := Protect(42)
		var result int
		p.ReadAccess(func(val int) {
			result = val
		})
		testutil.AssertEqual(t, result, 42)
	})

	t.Run("write access", func(t *testing.T) {
		var i int
		p := Protect(&i)
		p.WriteAccess(func(val *int) {
			*val = 43 // Modify the value.
		})
		var result int
		p.ReadAccess(func(val *int) { result = *val }) // Verify change.
		testutil.AssertEqual(t, result, 43)
	})

	t.Run("concurrent access", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			var i int
			p := Protect(&i)
			for range 100 {
				go p.WriteAccess(func(val *int) {
					*val++
				})
			}
			synctest.Wait()

			var result int
			p.ReadAccess(func(val *int) { result = *val })
			testutil.AssertEqual(t, result, 100)
		})
	})
}

func TestLazy(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		var l Lazy[int]
		var count int
		var mu sync.Mutex

		f := func() int {
			mu.Lock()
			defer mu.Unlock()
			count++
			return count
		}

		v1 := l.Get(f)
		testutil.AssertEqual(t, v1, 1)

		v2 := l.Get(f)
		testutil.AssertEqual(t, v2, 1)

		testutil.AssertEqual(t, count, 1)

		var l2 Lazy[string]

		f2 := func() (string, error) {
			return "", errors.New("something went wrong")
		}

		notnil := func(err error) {
			if err == nil {
				t.Fatalf("err must not be nil")
			}
		}

		ev1, err := l2.GetErr(f2)
		testutil.AssertEqual(t, ev1, "")
		notnil(err)

		ev2, err := l2.GetErr(f2)
		testutil.AssertEqual(t, ev2, "")
		notnil(err)
	})
}

func TestMap(t *testing.T) {
	t.Parallel()

	t.Run("load and store", func(t *testing.T) {
		var m Map[string, int]
		_, ok := m.Load("a")
		testutil.AssertEqual(t, ok, false)

		m.Store("a", 1)
		v, ok := m.Load("a")
		testutil.AssertEqual(t, ok, true)
		testutil.AssertEqual(t, v, 1)

		v, loaded := m.LoadOrStore("a", 2)
		testutil.AssertEqual(t, loaded, true)
		testutil.AssertEqual(t, v, 1)

		v, loaded = m.LoadAndDelete("a")
		testutil.AssertEqual(t, loaded, true)
		testutil.AssertEqual(t, v, 1)
		testutil.AssertEqual(t, m.Len(), 0)
	})

	t.Run("range", func(t *testing.T) {
		var m Map[int, int]
		for i := range 10 {
			m.Store(i, i*i)
		}
		m.Delete(0)
		sum := 0
		m.Range(func(k, v int) bool {
			testutil.AssertEqual(t, v, k*k)
			sum += k
			return true
		})
		testutil.AssertEqual(t, sum, 45)
		testutil.AssertEqual(t, m.Len(), 9)
	})

	t.Run("concurrent LoadOrStore claims once", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			var (
				m       Map[string, struct{}]
				claimed atomic.Int32
			)
			for range 100 {
				go func() {
					if _, loaded := m.LoadOrStore("file.go", struct{}{}); !loaded {
						claimed.Add(1)
					}
				}()
			}
			synctest.Wait()
			testutil.AssertEqual(t, int(claimed.Load()), 1)
		})
	})
}
