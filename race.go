// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package syncdemo

// RaceEnabled is true when the race detector is active.
// Used to skip runs of UnsynchronizedCounter, whose data race is
// intentional and would otherwise fail the test binary.
const RaceEnabled = true
