// Package cache holds the per-device fallback stores for the profile
// snapshot and the default-participants list. Both implementations expose
// GetString/SetString; a missing key is reported as found=false, not as an
// error.
package cache
