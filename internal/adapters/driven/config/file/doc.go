// Package file stores archstore settings in a TOML file under the user's
// config directory and reloads them when the file is edited by hand.
//
// Writes go through a temp file and a rename, so a crash mid-save never
// leaves a truncated config behind.
package file
