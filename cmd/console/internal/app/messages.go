// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 Jared Redh. All rights reserved.

package app

import (
	"github.com/jredh-dev/tripmarket/internal/gateway"
	"github.com/jredh-dev/tripmarket/internal/state"
)

// stateMsg carries a snapshot published by the store.
type stateMsg struct {
	st state.State
}

type loginResultMsg struct {
	session gateway.Session
	err     error
}

type refreshResultMsg struct {
	err error
}

// actionResultMsg reports a finished admin action. done is the success line.
type actionResultMsg struct {
	done string
	err  error
}
