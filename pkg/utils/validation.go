// Copyright 2025 The Sigstore Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package utils holds checks the CLI runs on flag values before a request is
// handed to the signer.
package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// RequireFlag fails when value is empty.
func RequireFlag(flag, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required", flag)
	}
	return nil
}

// ValidateFile checks that path names an existing file.
func ValidateFile(flag, path string) error {
	if err := RequireFlag(flag, path); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s %q does not exist: %w", flag, path, err)
		}
		return fmt.Errorf("checking %s %q: %w", flag, path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s %q is a directory, expected file", flag, path)
	}
	return nil
}

// ValidateOptionalFile is ValidateFile for flags that may be empty.
func ValidateOptionalFile(flag, path string) error {
	if path == "" {
		return nil
	}
	return ValidateFile(flag, path)
}
