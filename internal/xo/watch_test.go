// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"testing"

	"github.com/irifrance/ginit/z"
)

func TestLocOverflow(t *testing.T) {
	loc := z.C(3)
	w := MakeWatch(loc, 7, true)
	loc2 := w.C()
	if w.C() != loc {
		t.Errorf("error isbin overflow?: %s != %s", loc, loc2)
	}
}

func TestWatch(t *testing.T) {
	loc := z.C(77)
	m := z.Lit(1024)
	isBin := true
	w := MakeWatch(loc, m, isBin)
	t.Logf("%s\n", w)
	if w.Other() != m {
		t.Errorf("other decode: %s != %s", w.Other(), m)
	}
	if w.IsBinary() != isBin {
		t.Errorf("isBin decode: %t != %t", w.IsBinary(), isBin)
	}
	if w.C() != loc {
		t.Errorf("loc en/decode: %s != %s", w.C(), loc)
	}

	o := z.Lit(33)
	w0 := w.Reblock(o)
	if w0.Other() != o {
		t.Errorf("reblock other: %s != %s", w0.Other(), o)
	}
	if w0.IsBinary() != isBin {
		t.Errorf("isBin decode %t != %t", w0.IsBinary(), isBin)
	}
	if w0.C() != loc {
		t.Errorf("reblock loc %s != %s", w0.C(), loc)
	}
}
