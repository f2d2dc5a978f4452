// Package document reads and writes the JSON files jsonlock operates on.
//
// Files are accessed through an os.Root opened on the file's directory, so
// reads and writes cannot be redirected outside that directory by the file
// name. Writes go to a temporary file in the same directory and are renamed
// over the target, so a failed write never leaves a half-written document.
package document
