// Clipshare - Short Video Sharing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipshare

package config

import (
	"fmt"
	"net/url"
)

// validateHTTPURL accepts an absolute http(s) origin such as
// "https://host/api". Request paths are joined onto it, so a query or
// fragment would end up in the middle of every URL and is rejected.
func validateHTTPURL(raw, envName string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a URL: %w", envName, err)
	}
	switch {
	case u.Scheme != "http" && u.Scheme != "https":
		return fmt.Errorf("%s must use http or https, got %q", envName, u.Scheme)
	case u.Host == "":
		return fmt.Errorf("%s has no host", envName)
	case u.RawQuery != "":
		return fmt.Errorf("%s must not carry query parameters (?%s)", envName, u.RawQuery)
	case u.Fragment != "":
		return fmt.Errorf("%s must not carry a fragment (#%s)", envName, u.Fragment)
	}
	return nil
}
