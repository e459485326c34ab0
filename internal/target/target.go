// Package target describes the compilation target, consulted once to decide
// which platform-specific built-in modules to load.
package target

import "runtime"

// Family is a broad architecture family.
type Family uint8

const (
	FamilyUnknown Family = iota
	FamilyX86
	FamilyARM
	FamilyPowerPC
	FamilyRISCV
)

func (f Family) String() string {
	switch f {
	case FamilyX86:
		return "x86"
	case FamilyARM:
		return "arm"
	case FamilyPowerPC:
		return "powerpc"
	case FamilyRISCV:
		return "riscv"
	default:
		return "unknown"
	}
}

// Characteristics captures the queried properties of the target.
type Characteristics struct {
	Family Family
}

// IsPowerPC reports whether the target needs the PPC built-in modules.
func (c Characteristics) IsPowerPC() bool { return c.Family == FamilyPowerPC }

// Detect resolves the target family from an optional cpu override, falling
// back to the host architecture.
func Detect(cpuOverride string) Characteristics {
	arch := cpuOverride
	if arch == "" {
		arch = runtime.GOARCH
	}
	return Characteristics{Family: familyOf(arch)}
}

func familyOf(arch string) Family {
	switch arch {
	case "386", "amd64", "x86", "x86_64":
		return FamilyX86
	case "arm", "arm64", "aarch64":
		return FamilyARM
	case "ppc", "ppc64", "ppc64le", "powerpc", "powerpc64":
		return FamilyPowerPC
	case "riscv", "riscv64":
		return FamilyRISCV
	default:
		return FamilyUnknown
	}
}
