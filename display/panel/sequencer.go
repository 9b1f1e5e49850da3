package panel

// Step is one stage of panel bring-up.
type Step uint8

const (
	StepConfigure Step = iota + 1
	StepOutputDisable
	StepBacklightOn
	StepEnableLayer
	StepOutputEnable
)

func (s Step) String() string {
	switch s {
	case StepConfigure:
		return "configure"
	case StepOutputDisable:
		return "output disable"
	case StepBacklightOn:
		return "backlight on"
	case StepEnableLayer:
		return "enable layer + reload"
	case StepOutputEnable:
		return "output enable"
	default:
		return "unknown"
	}
}

type bringUpTarget interface {
	// configure programs timing, layer and framebuffer.
	configure()
	setOutputEnable(on bool)
	setBacklight(on bool)
	// commit enables the layer and reloads the shadow registers.
	commit()
}

// bringUp runs the one valid ordering. The panel is kept dark while the
// backlight comes on and while the layer is committed, so the framebuffer is
// never shown before the controller scans it.
func bringUp(t bringUpTarget, trace func(Step)) {
	t.configure()
	trace(StepConfigure)
	t.setOutputEnable(false)
	trace(StepOutputDisable)
	t.setBacklight(true)
	trace(StepBacklightOn)
	t.commit()
	trace(StepEnableLayer)
	t.setOutputEnable(true)
	trace(StepOutputEnable)
}
