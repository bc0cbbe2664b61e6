package intent

import "net/url"

// anyUriData is the fully-unresolved UriData, returned whenever the walk
// cannot trace a Uri value back to a string constant.
func anyUriData() UriData {
	return UriData{Scheme: AnyToken, Host: AnyToken, Path: AnyToken, MimeType: AnyToken}
}

// parseUriString splits a literal URI string into scheme/host/path using the
// standard library's URL grammar. No example repo in the reference pack
// carries a URI-parsing dependency, and net/url already implements the
// grammar precisely, so reaching for a third-party parser here would add a
// dependency with no behavioral benefit.
func parseUriString(s string) UriData {
	u, err := url.Parse(s)
	if err != nil {
		return anyUriData()
	}
	d := UriData{MimeType: AnyToken}
	if u.Scheme != "" {
		d.Scheme = u.Scheme
	} else {
		d.Scheme = AnyToken
	}
	if u.Host != "" {
		d.Host = u.Host
	} else {
		d.Host = AnyToken
	}
	if u.Path != "" {
		d.Path = u.Path
	} else {
		d.Path = AnyToken
	}
	return d
}
