// Package properties implements the flat property store shared by every
// configuration layer, along with the key=value file codec used for global,
// project and module settings files.
package properties
