// Package hcl provides the concrete HCL implementation for the
// configuration loading interface defined in the `config` package. It is
// responsible for discovering build files, parsing them, evaluating
// `locals`, and translating `target` blocks into the config model.
package hcl
