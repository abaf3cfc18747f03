package board

const (
	galagoPro3BiosInfoGUID = "C83BCE0E-6F16-4D3C-8D9F-4D6F5A032929"
	platformHardcoded      = "Platform Hardcoded"
)

func boolPtr(b bool) *bool {
	return &b
}

// GalagoPro3 is the System76 Galago Pro 3 laptop.
func GalagoPro3() Profile {
	p := Profile{
		ProductName:   "GalagoPro3",
		Description:   "System76 Galago Pro 3",
		BoardPackage:  "KabylakeOpenBoardPkg",
		Architectures: []string{"IA32", "X64"},
		Targets:       []string{"DEBUG", "RELEASE", "NOOPT"},
		Scopes:        []string{"edk2-build", "intel_silicon_tools", "intel_fsp", "openkbl_iasl"},
		Submodules: []Submodule{
			{Path: "EDK2", Recursive: true},
			{Path: "EDK2-NON-OSI", Recursive: true},
			{Path: "Silicon/Intel/FSPs", Recursive: true},
		},
		PackagesPath: []string{
			"EDK2",
			"Platform/Intel",
			"Silicon/Intel",
			"Silicon/Intel/FSPs",
			"EDK2-NON-OSI/Silicon/Intel",
			"EDK2-NON-OSI/Platform/Intel/KabylakeOpenBoardBinPkg",
		},
		ToolChainTag:  "VS2017",
		FlashMap:      "Platform/Intel/KabylakeOpenBoardPkg/GalagoPro3/Include/Fdf/FlashMapInclude.fdf",
		FspBinaryPath: "Silicon/Intel/FSPS/KabylakeFspBinPkg/",
		BiosSize:      "SIZE_70",
		FspWrapper:    boolPtr(true),
		BiosInfoGUID:  galagoPro3BiosInfoGUID,
		Pcds:          []string{"gIntelFsp2WrapperTokenSpaceGuid.PcdFspModeSelection=1"},
		Env: []EnvVar{
			{Name: "WORKSPACE_SILICON", Value: "Silicon/Intel/Tools", Comment: platformHardcoded},
			{Name: "WORKSPACE_PLATFORM_BIN", Value: "edk2-non-osi/Platform/Intel/KabylakeOpenBoardBinPkg", Comment: platformHardcoded},
			{Name: "BOARD_PKG_PCD_DSC", Value: "KabylakeOpenBoardPkg/GalagoPro3/OpenBoardPkgPcd.dsc", Comment: platformHardcoded},
		},
		Rebase: &Rebase{},
	}
	p.ApplyDefaults()
	return p
}

// KabylakeRvp3 is the Intel Kaby Lake RVP3 reference validation platform.
func KabylakeRvp3() Profile {
	p := Profile{
		ProductName:    "KblRvp3",
		Description:    "Intel Kaby Lake RVP3",
		BoardPackage:   "KabylakeOpenBoardPkg",
		Location:       "Platforms/Platform/Intel/KabylakeOpenBoardPkg/KabylakeRvp3",
		Project:        "KabylakeOpenBoardPkg/KabylakeRvp3",
		ActivePlatform: "KabylakeOpenBoardPkg/KabylakeRvp3/OpenBoardPkg.dsc",
		Architectures:  []string{"IA32", "X64"},
		Targets:        []string{"DEBUG", "RELEASE", "NOOPT"},
		Scopes:         []string{"edk2-build", "kbl"},
		Submodules: []Submodule{
			{Path: "CryptoPkg/Library/OpensslLib/openssl", Recursive: false},
		},
		PackagesPath: []string{
			"Platforms/Platform/Intel",
			"Platforms/Silicon/Intel",
		},
		ToolChainTag: "VS2017",
	}
	p.ApplyDefaults()
	return p
}

// Builtin returns the boards known without any profile files.
func Builtin() []Profile {
	return []Profile{GalagoPro3(), KabylakeRvp3()}
}
