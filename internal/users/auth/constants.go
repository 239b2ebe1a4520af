// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Account Constraints

const (
	// UsernameMaxLength is the longest accepted username.
	UsernameMaxLength = 150

	// EmailMaxLength is the longest accepted email address.
	EmailMaxLength = 254

	// NameMaxLength bounds first_name and last_name.
	NameMaxLength = 150
)

// # Messages

const (
	// MsgUsernameTaken is reported on username for both the pre-check and a
	// lost race on the unique index.
	MsgUsernameTaken = "A user with that username already exists."

	// MsgEmailTaken is the email counterpart of MsgUsernameTaken.
	MsgEmailTaken = "A user with that email already exists."

	// MsgInvalidCode is reported on confirmation_code.
	MsgInvalidCode = "Invalid or expired confirmation code."
)

// CodeInvalidConfirmationCode is the machine-readable code of a failed exchange.
const CodeInvalidConfirmationCode = "INVALID_CONFIRMATION_CODE"
