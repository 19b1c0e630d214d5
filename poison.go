// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncdemo

// poison records that a lock holder panicked.
//
// The flag is set and checked only while the owning lock is held.
type poison struct {
	flag bool
}

func (p *poison) check() error {
	if p.flag {
		return ErrPoisoned
	}
	return nil
}

func (p *poison) mark() {
	p.flag = true
}

// guard runs fn and marks p when fn does not return normally.
// The panic keeps propagating to the caller.
func (p *poison) guard(fn func()) {
	done := false
	defer func() {
		if !done {
			p.mark()
		}
	}()
	fn()
	done = true
}
