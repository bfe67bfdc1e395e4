// Package arch classifies compiled binaries by CPU architecture family.
//
// Classification reads the ELF header only; it is a pure function with no
// side effects and works against standalone files or bytes extracted from a
// container filesystem. Unrecognized input is reported as the explicit
// Unknown family so a defective toolchain can never masquerade as a valid
// target.
package arch
