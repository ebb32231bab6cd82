package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action represents a logical viewer action, not a physical key
type Action int

const (
	ActionTessellationUp Action = iota
	ActionTessellationDown
	ActionChangeShader
	ActionMakeRed
	ActionMakeGreen
	ActionMakeBlue
	ActionReloadScene
	ActionToggleHUD
	ActionToggleProfiling
	ActionQuit
	ActionOrbit
	ActionCount // Sentinel value for array sizing
)

var actionNames = [ActionCount]string{
	"tessellation-up",
	"tessellation-down",
	"change-shader",
	"make-red",
	"make-green",
	"make-blue",
	"reload-scene",
	"toggle-hud",
	"toggle-profiling",
	"quit",
	"orbit",
}

func (a Action) String() string {
	if a < 0 || a >= ActionCount {
		return "unknown"
	}
	return actionNames[a]
}

// InputManager maps physical keys and buttons to logical actions and keeps
// per-frame edge state plus the cursor and scroll deltas used for orbiting.
type InputManager struct {
	mu sync.RWMutex

	// Key to action mapping (one key can map to multiple actions)
	keyToActions map[glfw.Key][]Action

	mouseButtonToActions map[glfw.MouseButton][]Action

	currentState [ActionCount]bool

	// Just pressed/released flags (reset each frame)
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool

	cursorX, cursorY float64
	cursorValid      bool
	dragX, dragY     float64
	scroll           float64
}

// NewInputManager creates a new InputManager with default bindings
func NewInputManager() *InputManager {
	im := &InputManager{
		keyToActions:         make(map[glfw.Key][]Action),
		mouseButtonToActions: make(map[glfw.MouseButton][]Action),
	}

	im.BindKey(glfw.KeyUp, ActionTessellationUp)
	im.BindKey(glfw.KeyEqual, ActionTessellationUp)
	im.BindKey(glfw.KeyKPAdd, ActionTessellationUp)
	im.BindKey(glfw.KeyDown, ActionTessellationDown)
	im.BindKey(glfw.KeyMinus, ActionTessellationDown)
	im.BindKey(glfw.KeyKPSubtract, ActionTessellationDown)
	im.BindKey(glfw.KeyTab, ActionChangeShader)
	im.BindKey(glfw.Key1, ActionMakeRed)
	im.BindKey(glfw.Key2, ActionMakeGreen)
	im.BindKey(glfw.Key3, ActionMakeBlue)
	im.BindKey(glfw.KeyL, ActionReloadScene)
	im.BindKey(glfw.KeyH, ActionToggleHUD)
	im.BindKey(glfw.KeyV, ActionToggleProfiling)
	im.BindKey(glfw.KeyEscape, ActionQuit)

	im.BindMouseButton(glfw.MouseButtonLeft, ActionOrbit)

	return im
}

// BindKey binds a physical key to a logical action
// Multiple keys can be bound to the same action (e.g., Up and +)
func (im *InputManager) BindKey(key glfw.Key, action Action) {
	im.mu.Lock()
	defer im.mu.Unlock()

	if action < 0 || action >= ActionCount {
		return
	}

	im.keyToActions[key] = append(im.keyToActions[key], action)
}

// UnbindKey removes all action bindings for a key
func (im *InputManager) UnbindKey(key glfw.Key) {
	im.mu.Lock()
	defer im.mu.Unlock()

	delete(im.keyToActions, key)
}

// BindMouseButton binds a mouse button to a logical action
func (im *InputManager) BindMouseButton(button glfw.MouseButton, action Action) {
	im.mu.Lock()
	defer im.mu.Unlock()

	if action < 0 || action >= ActionCount {
		return
	}

	im.mouseButtonToActions[button] = append(im.mouseButtonToActions[button], action)
}

func (im *InputManager) apply(actions []Action, isPressed bool) {
	for _, act := range actions {
		if act < 0 || act >= ActionCount {
			continue
		}
		// Detect edges immediately when event arrives
		if isPressed && !im.currentState[act] {
			im.justPressed[act] = true
		}
		if !isPressed && im.currentState[act] {
			im.justReleased[act] = true
		}
		im.currentState[act] = isPressed
	}
}

// HandleKeyEvent processes a key event and updates internal state.
// Key repeat counts as held, so holding Up steps only once.
func (im *InputManager) HandleKeyEvent(key glfw.Key, action glfw.Action) {
	im.mu.Lock()
	defer im.mu.Unlock()

	actions, exists := im.keyToActions[key]
	if !exists {
		return
	}
	im.apply(actions, action == glfw.Press || action == glfw.Repeat)
}

// HandleMouseButtonEvent processes a mouse button event and updates internal state
func (im *InputManager) HandleMouseButtonEvent(button glfw.MouseButton, action glfw.Action) {
	im.mu.Lock()
	defer im.mu.Unlock()

	actions, exists := im.mouseButtonToActions[button]
	if !exists {
		return
	}
	im.apply(actions, action == glfw.Press)
}

// HandleCursorPos accumulates cursor motion while the orbit action is held
func (im *InputManager) HandleCursorPos(x, y float64) {
	im.mu.Lock()
	defer im.mu.Unlock()

	if im.cursorValid && im.currentState[ActionOrbit] {
		im.dragX += x - im.cursorX
		im.dragY += y - im.cursorY
	}
	im.cursorX, im.cursorY = x, y
	im.cursorValid = true
}

// HandleScroll accumulates vertical wheel movement
func (im *InputManager) HandleScroll(_, yoff float64) {
	im.mu.Lock()
	defer im.mu.Unlock()

	im.scroll += yoff
}

// Attach installs the GLFW key, mouse, cursor and scroll callbacks for this manager
func (im *InputManager) Attach(window *glfw.Window) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		im.HandleKeyEvent(key, action)
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		im.HandleMouseButtonEvent(button, action)
	})
	window.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		im.HandleCursorPos(x, y)
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		im.HandleScroll(xoff, yoff)
	})
}

// PostUpdate must be called at the end of each frame to reset edges and deltas
func (im *InputManager) PostUpdate() {
	im.mu.Lock()
	defer im.mu.Unlock()

	for i := range ActionCount {
		im.justPressed[i] = false
		im.justReleased[i] = false
	}
	im.dragX, im.dragY = 0, 0
	im.scroll = 0
}

// IsActive returns true if the action is currently being held down
func (im *InputManager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.currentState[action]
}

// JustPressed returns true only if the action was pressed in the current frame
func (im *InputManager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.justPressed[action]
}

// JustReleased returns true only if the action was released in the current frame
func (im *InputManager) JustReleased(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.justReleased[action]
}

// Drag returns the cursor movement in pixels since the last PostUpdate while orbiting
func (im *InputManager) Drag() (dx, dy float64) {
	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.dragX, im.dragY
}

// Scroll returns the wheel movement since the last PostUpdate
func (im *InputManager) Scroll() float64 {
	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.scroll
}
