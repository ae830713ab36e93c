// Package module builds the tree of modules declared through sonar.modules.
// Each module gets its own base directory and property namespace, inherits
// its parent's properties and is flattened back into a single property set
// under "<id>." prefixes.
package module
