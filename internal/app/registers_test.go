// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/uv_monitor/internal/sensors"
)

func TestWriteRegisterTable(t *testing.T) {
	var regs []sensors.RegisterValue
	for _, r := range sensors.AS7331RegisterMap() {
		v := r.Default
		if r.Name == "CREG3" {
			v = 0x90
		}
		regs = append(regs, sensors.RegisterValue{RegisterInfo: r, Value: v})
	}

	var buf bytes.Buffer
	require.NoError(t, writeRegisterTable(&buf, regs))
	out := buf.String()

	lines := strings.Split(out, "\n")
	assert.True(t, strings.HasPrefix(lines[0], "ADDR"))
	assert.Contains(t, out, "0x90 *")
	assert.NotContains(t, out, "0xA6 *")
	assert.Regexp(t, `\[7:6\] MMODE\s+2\s`, out)
	assert.Regexp(t, `\[7:4\] GAIN\s+10\s`, out)
}
