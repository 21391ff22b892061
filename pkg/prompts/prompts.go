// Copyright (C) 2024-2025, Taostack. All rights reserved.
// See the file LICENSE for licensing terms.
package prompts

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

const (
	Yes = "Yes"
	No  = "No"
)

// promptUIRunner is a variable for testing purposes to allow mocking prompt.Run()
var promptUIRunner = func(prompt promptui.Prompt) (string, error) {
	return prompt.Run()
}

// promptUISelectRunner is a variable for testing purposes to allow mocking select.Run()
var promptUISelectRunner = func(sel promptui.Select) (int, string, error) {
	return sel.Run()
}

type Prompter interface {
	CaptureString(promptStr string) (string, error)
	CaptureStringAllowEmpty(promptStr string) (string, error)
	CapturePassword(promptStr string) (string, error)
	CaptureYesNo(promptStr string) (bool, error)
	CaptureList(promptStr string, options []string) (string, error)
	CaptureFloat(promptStr string, validator func(float64) error) (float64, error)
	CapturePositiveInt(promptStr string, validator func(int) error) (int, error)
	CaptureUint64(promptStr string, validator func(uint64) error) (uint64, error)
	CaptureValidatedString(promptStr string, validator func(string) error) (string, error)
}

type realPrompter struct{}

func NewPrompter() Prompter {
	return &realPrompter{}
}

// NewPrompterForMode returns the interactive prompter, or one that fails
// with ErrNonInteractive when prompting is disabled. Scripted runs set
// every value through flags or the environment.
func NewPrompterForMode(nonInteractive bool) Prompter {
	if nonInteractive {
		return &failPrompter{}
	}
	return NewPrompter()
}

var ErrNonInteractive = errors.New("value not provided and prompting is disabled")

type failPrompter struct{}

func (*failPrompter) fail(promptStr string) error {
	return fmt.Errorf("%w: %s", ErrNonInteractive, promptStr)
}

func (p *failPrompter) CaptureString(promptStr string) (string, error) {
	return "", p.fail(promptStr)
}

func (p *failPrompter) CaptureStringAllowEmpty(promptStr string) (string, error) {
	return "", p.fail(promptStr)
}

// CapturePassword succeeds with an empty credential: keyfile wallets have
// no password, and an encrypted wallet will fail the unlock instead.
func (*failPrompter) CapturePassword(string) (string, error) {
	return "", nil
}

func (p *failPrompter) CaptureYesNo(promptStr string) (bool, error) {
	return false, p.fail(promptStr)
}

func (p *failPrompter) CaptureList(promptStr string, _ []string) (string, error) {
	return "", p.fail(promptStr)
}

func (p *failPrompter) CaptureFloat(promptStr string, _ func(float64) error) (float64, error) {
	return 0, p.fail(promptStr)
}

func (p *failPrompter) CapturePositiveInt(promptStr string, _ func(int) error) (int, error) {
	return 0, p.fail(promptStr)
}

func (p *failPrompter) CaptureUint64(promptStr string, _ func(uint64) error) (uint64, error) {
	return 0, p.fail(promptStr)
}

func (p *failPrompter) CaptureValidatedString(promptStr string, _ func(string) error) (string, error) {
	return "", p.fail(promptStr)
}

func (*realPrompter) CaptureString(promptStr string) (string, error) {
	prompt := promptui.Prompt{
		Label: promptStr,
		Validate: func(input string) error {
			if input == "" {
				return errors.New("string cannot be empty")
			}
			return nil
		},
	}
	return promptUIRunner(prompt)
}

func (*realPrompter) CaptureStringAllowEmpty(promptStr string) (string, error) {
	prompt := promptui.Prompt{
		Label: promptStr,
	}
	return promptUIRunner(prompt)
}

func (*realPrompter) CapturePassword(promptStr string) (string, error) {
	prompt := promptui.Prompt{
		Label: promptStr,
		Mask:  '*',
	}
	return promptUIRunner(prompt)
}

func (*realPrompter) CaptureYesNo(promptStr string) (bool, error) {
	prompt := promptui.Select{
		Label: promptStr,
		Items: []string{Yes, No},
	}
	_, decision, err := promptUISelectRunner(prompt)
	if err != nil {
		return false, err
	}
	return decision == Yes, nil
}

func (*realPrompter) CaptureList(promptStr string, options []string) (string, error) {
	prompt := promptui.Select{
		Label: promptStr,
		Items: options,
	}
	_, listDecision, err := promptUISelectRunner(prompt)
	if err != nil {
		return "", err
	}
	return listDecision, nil
}

func (*realPrompter) CaptureFloat(promptStr string, validator func(float64) error) (float64, error) {
	prompt := promptui.Prompt{
		Label: promptStr,
		Validate: func(input string) error {
			val, err := strconv.ParseFloat(input, 64)
			if err != nil {
				return fmt.Errorf("strconv.ParseFloat: %v", err)
			}
			if validator != nil {
				return validator(val)
			}
			return nil
		},
	}
	result, err := promptUIRunner(prompt)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(result, 64)
}

func (*realPrompter) CapturePositiveInt(promptStr string, validator func(int) error) (int, error) {
	prompt := promptui.Prompt{
		Label: promptStr,
		Validate: func(input string) error {
			val, err := strconv.Atoi(input)
			if err != nil {
				return err
			}
			if val <= 0 {
				return errors.New("input must be positive")
			}
			if validator != nil {
				return validator(val)
			}
			return nil
		},
	}
	amountStr, err := promptUIRunner(prompt)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(amountStr)
}

// CaptureUint64 accepts any non-negative integer, zero included.
func (*realPrompter) CaptureUint64(promptStr string, validator func(uint64) error) (uint64, error) {
	prompt := promptui.Prompt{
		Label: promptStr,
		Validate: func(input string) error {
			val, err := strconv.ParseUint(input, 10, 64)
			if err != nil {
				return err
			}
			if validator != nil {
				return validator(val)
			}
			return nil
		},
	}
	result, err := promptUIRunner(prompt)
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(result, 10, 64)
}

func (*realPrompter) CaptureValidatedString(promptStr string, validator func(string) error) (string, error) {
	prompt := promptui.Prompt{
		Label:    promptStr,
		Validate: validator,
	}
	return promptUIRunner(prompt)
}
