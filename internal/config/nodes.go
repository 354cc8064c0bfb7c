package config

// Node names understood by the device config loader.
const (
	KeyIsWaterfallDisplay                             = "isWaterfallDisplay"
	KeyIsWaterfallAreaCompressionEnableWhenHorizontal = "isWaterfallAreaCompressionEnableWhenHorizontal"
	KeyIsRightPowerButton                             = "isRightPowerButton"
	KeyIsSupportCapture                               = "isSupportCapture"
	KeyConcurrentUser                                 = "concurrentUser"
	KeySupportRotateWithSensor                        = "supportRotateWithSensor"
	KeyIsSupportOffScreenRendering                    = "isSupportOffScreenRendering"
	KeySupportDuringCall                              = "supportDuringCall"

	KeyDPI                                       = "dpi"
	KeySubDPI                                    = "subDpi"
	KeyCurvedScreenBoundary                      = "curvedScreenBoundary"
	KeyWaterfallAreaCompressionSizeWhenHorzontal = "waterfallAreaCompressionSizeWhenHorzontal"
	KeyBuildInDefaultOrientation                 = "buildInDefaultOrientation"
	KeyDefaultDeviceRotationOffset               = "defaultDeviceRotationOffset"
	KeyOffScreenPPIThreshold                     = "offScreenPPIThreshold"
	KeyPCModeDPI                                 = "pcModeDpi"
	KeyHalfFoldMaxThreshold                      = "halfFoldMaxThreshold"
	KeyCloseHalfFoldedMinThreshold               = "closeHalfFoldedMinThreshold"
	KeyOpenHalfFoldedMinThreshold                = "openHalfFoldedMinThreshold"
	KeyHalfFoldedBuffer                          = "halfFoldedBuffer"
	KeyLargerBoundaryForThreshold                = "largerBoundaryForThreshold"
	KeyPostureSize                               = "postureSize"
	KeyHallSize                                  = "hallSize"

	KeyDefaultDisplayCutoutPath  = "defaultDisplayCutoutPath"
	KeySubDisplayCutoutPath      = "subDisplayCutoutPath"
	KeyRotationPolicy            = "rotationPolicy"
	KeyDefaultRotationPolicy     = "defaultRotationPolicy"
	KeyScreenSnapshotBundleName  = "screenSnapshotBundleName"
	KeyScreenSnapshotAbilityName = "screenSnapshotAbilityName"
	KeyExternalScreenDefaultMode = "externalScreenDefaultMode"
	KeyCastBundleName            = "castBundleName"
	KeyCastAbilityName           = "castAbilityName"

	KeyHallSwitchApp = "hallSwitchApp"

	nodeDisplays                  = "displays"
	nodeDisplay                   = "display"
	nodeFlags                     = "flags"
	nodeFlag                      = "flag"
	nodePhysicalDisplayResolution = "physicalDisplayResolution"
	nodeScrollableParam           = "scrollableParam"

	rootNode = "Configs"
)

type nodeKind int

const (
	kindEnable nodeKind = iota
	kindNumber
	kindString
	kindStringList
	kindDisplays
	kindPhysicalResolution
	kindScrollableParam
)

// nodeTable maps every recognised tag to the slot it fills.
var nodeTable = map[string]nodeKind{
	KeyIsWaterfallDisplay:                             kindEnable,
	KeyIsWaterfallAreaCompressionEnableWhenHorizontal: kindEnable,
	KeyIsRightPowerButton:                             kindEnable,
	KeyIsSupportCapture:                               kindEnable,
	KeyConcurrentUser:                                 kindEnable,
	KeySupportRotateWithSensor:                        kindEnable,
	KeyIsSupportOffScreenRendering:                    kindEnable,
	KeySupportDuringCall:                              kindEnable,

	KeyDPI:                                       kindNumber,
	KeySubDPI:                                    kindNumber,
	KeyCurvedScreenBoundary:                      kindNumber,
	KeyWaterfallAreaCompressionSizeWhenHorzontal: kindNumber,
	KeyBuildInDefaultOrientation:                 kindNumber,
	KeyDefaultDeviceRotationOffset:               kindNumber,
	KeyOffScreenPPIThreshold:                     kindNumber,
	KeyPCModeDPI:                                 kindNumber,
	KeyHalfFoldMaxThreshold:                      kindNumber,
	KeyCloseHalfFoldedMinThreshold:               kindNumber,
	KeyOpenHalfFoldedMinThreshold:                kindNumber,
	KeyHalfFoldedBuffer:                          kindNumber,
	KeyLargerBoundaryForThreshold:                kindNumber,
	KeyPostureSize:                               kindNumber,
	KeyHallSize:                                  kindNumber,

	KeyDefaultDisplayCutoutPath:  kindString,
	KeySubDisplayCutoutPath:      kindString,
	KeyRotationPolicy:            kindString,
	KeyDefaultRotationPolicy:     kindString,
	KeyScreenSnapshotBundleName:  kindString,
	KeyScreenSnapshotAbilityName: kindString,
	KeyExternalScreenDefaultMode: kindString,
	KeyCastBundleName:            kindString,
	KeyCastAbilityName:           kindString,

	KeyHallSwitchApp: kindStringList,

	nodeDisplays:                  kindDisplays,
	nodePhysicalDisplayResolution: kindPhysicalResolution,
	nodeScrollableParam:           kindScrollableParam,
}
