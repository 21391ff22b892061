// Copyright (C) 2024-2025, Taostack. All rights reserved.
// See the file LICENSE for licensing terms.
package prompts

import (
	"errors"
	"testing"

	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/require"
)

func TestCaptureYesNo(t *testing.T) {
	orig := promptUISelectRunner
	defer func() { promptUISelectRunner = orig }()

	promptUISelectRunner = func(sel promptui.Select) (int, string, error) {
		require.Equal(t, []string{Yes, No}, sel.Items)
		return 0, Yes, nil
	}
	ok, err := NewPrompter().CaptureYesNo("continue?")
	require.NoError(t, err)
	require.True(t, ok)

	promptUISelectRunner = func(promptui.Select) (int, string, error) {
		return 1, No, nil
	}
	ok, err = NewPrompter().CaptureYesNo("continue?")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCaptureFloatValidates(t *testing.T) {
	orig := promptUIRunner
	defer func() { promptUIRunner = orig }()

	promptUIRunner = func(prompt promptui.Prompt) (string, error) {
		// Exercise the validator the way promptui would.
		require.Error(t, prompt.Validate("not-a-number"))
		require.Error(t, prompt.Validate("-3"))
		require.NoError(t, prompt.Validate("0.05"))
		return "0.05", nil
	}

	val, err := NewPrompter().CaptureFloat("amount", func(f float64) error {
		if f < 0 {
			return errors.New("negative")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 0.05, val)
}

func TestCapturePositiveInt(t *testing.T) {
	orig := promptUIRunner
	defer func() { promptUIRunner = orig }()

	promptUIRunner = func(prompt promptui.Prompt) (string, error) {
		require.Error(t, prompt.Validate("0"))
		require.Error(t, prompt.Validate("-2"))
		require.NoError(t, prompt.Validate("3"))
		return "3", nil
	}

	val, err := NewPrompter().CapturePositiveInt("epochs", nil)
	require.NoError(t, err)
	require.Equal(t, 3, val)
}

func TestCaptureUint64AllowsZero(t *testing.T) {
	orig := promptUIRunner
	defer func() { promptUIRunner = orig }()

	promptUIRunner = func(prompt promptui.Prompt) (string, error) {
		require.NoError(t, prompt.Validate("0"))
		require.Error(t, prompt.Validate("-1"))
		require.Error(t, prompt.Validate("abc"))
		require.Error(t, prompt.Validate("70000"))
		return "0", nil
	}

	val, err := NewPrompter().CaptureUint64("netuid", func(v uint64) error {
		if v > 65535 {
			return errors.New("out of range")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, uint64(0), val)
}

func TestNonInteractivePrompterFails(t *testing.T) {
	p := NewPrompterForMode(true)

	_, err := p.CaptureString("wallet")
	require.ErrorIs(t, err, ErrNonInteractive)
	_, err = p.CaptureUint64("netuid", nil)
	require.ErrorIs(t, err, ErrNonInteractive)

	// Keyfile wallets have no password, so this one succeeds empty.
	cred, err := p.CapturePassword("password")
	require.NoError(t, err)
	require.Empty(t, cred)
}
