package selection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rephrase-app/rephrase/internal/config"
)

type fakeDevice struct {
	content  string
	readErr  error
	writeErr error
	writes   int
}

func (d *fakeDevice) Read() (string, error) {
	if d.readErr != nil {
		return "", d.readErr
	}

	return d.content, nil
}

func (d *fakeDevice) Write(text string) error {
	if d.writeErr != nil {
		return d.writeErr
	}

	d.writes++
	d.content = text

	return nil
}

// fakeInjector simulates the focused application: a successful copy command
// places the configured payload on the device.
type fakeInjector struct {
	device *fakeDevice

	copyPayload string
	menuPayload string

	copyErr  error
	menuErr  error
	pasteErr error

	copyCalls  int
	menuCalls  int
	pasteCalls int
}

func (i *fakeInjector) SendCopy(context.Context) error {
	i.copyCalls++
	if i.copyErr != nil {
		return i.copyErr
	}

	i.device.content = i.copyPayload

	return nil
}

func (i *fakeInjector) SendMenuCopy(context.Context) error {
	i.menuCalls++
	if i.menuErr != nil {
		return i.menuErr
	}

	i.device.content = i.menuPayload

	return nil
}

func (i *fakeInjector) SendPaste(context.Context) error {
	i.pasteCalls++

	return i.pasteErr
}

func testConfig() *config.Config {
	return &config.Config{
		ClipboardPollAttempts: 3,
		ClipboardPollDelay:    time.Millisecond,
		MenuCopyFallback:      true,
	}
}

func newTestProtocol(cfg *config.Config, device *fakeDevice, injector *fakeInjector) *Protocol {
	logger := zerolog.Nop()

	return New(cfg, device, injector, &logger)
}

func TestCaptureSelectionSuccess(t *testing.T) {
	device := &fakeDevice{content: "original clipboard"}
	injector := &fakeInjector{device: device, copyPayload: "selected text"}
	p := newTestProtocol(testConfig(), device, injector)

	got, ok := p.CaptureSelection(context.Background())

	if !ok {
		t.Fatal("CaptureSelection() ok = false, want true")
	}

	if got != "selected text" {
		t.Errorf("CaptureSelection() = %q, want %q", got, "selected text")
	}

	// The captured text stays on the clipboard as the paste-back handoff.
	if device.content != "selected text" {
		t.Errorf("clipboard = %q, want captured text left in place", device.content)
	}

	if injector.menuCalls != 0 {
		t.Errorf("menu fallback used %d times, want 0", injector.menuCalls)
	}
}

func TestCaptureSelectionNothingSelectedRestoresClipboard(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty clipboard after copy", ""},
		{"whitespace-only clipboard after copy", "  \n\t "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := &fakeDevice{content: "keep me"}
			injector := &fakeInjector{device: device, copyPayload: tt.payload, menuPayload: tt.payload}
			p := newTestProtocol(testConfig(), device, injector)

			_, ok := p.CaptureSelection(context.Background())

			if ok {
				t.Fatal("CaptureSelection() ok = true, want false")
			}

			if device.content != "keep me" {
				t.Errorf("clipboard = %q, want original restored", device.content)
			}
		})
	}
}

func TestCaptureSelectionMenuFallback(t *testing.T) {
	device := &fakeDevice{content: "orig"}
	injector := &fakeInjector{
		device:      device,
		copyErr:     errors.New("keystroke ignored"),
		menuPayload: "via menu",
	}
	p := newTestProtocol(testConfig(), device, injector)

	got, ok := p.CaptureSelection(context.Background())

	if !ok || got != "via menu" {
		t.Fatalf("CaptureSelection() = (%q, %v), want (%q, true)", got, ok, "via menu")
	}

	if injector.copyCalls != 1 || injector.menuCalls != 1 {
		t.Errorf("copyCalls = %d, menuCalls = %d, want 1 and 1", injector.copyCalls, injector.menuCalls)
	}
}

func TestCaptureSelectionMenuFallbackDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.MenuCopyFallback = false

	device := &fakeDevice{content: "orig"}
	injector := &fakeInjector{device: device, copyErr: errors.New("keystroke ignored")}
	p := newTestProtocol(cfg, device, injector)

	_, ok := p.CaptureSelection(context.Background())

	if ok {
		t.Fatal("CaptureSelection() ok = true, want false")
	}

	if injector.menuCalls != 0 {
		t.Errorf("menuCalls = %d, want 0 when fallback disabled", injector.menuCalls)
	}

	if device.content != "orig" {
		t.Errorf("clipboard = %q, want original restored", device.content)
	}
}

func TestCaptureSelectionAllMechanismsFail(t *testing.T) {
	device := &fakeDevice{content: "orig"}
	injector := &fakeInjector{
		device:  device,
		copyErr: errors.New("timeout"),
		menuErr: errors.New("no Edit menu"),
	}
	p := newTestProtocol(testConfig(), device, injector)

	_, ok := p.CaptureSelection(context.Background())

	if ok {
		t.Fatal("CaptureSelection() ok = true, want false")
	}

	if device.content != "orig" {
		t.Errorf("clipboard = %q, want original restored", device.content)
	}
}

func TestCaptureSelectionReadFailureTreatedAsEmptyOriginal(t *testing.T) {
	device := &fakeDevice{readErr: errors.New("pasteboard busy")}
	injector := &fakeInjector{device: device, copyPayload: "anything"}
	p := newTestProtocol(testConfig(), device, injector)

	// Reads keep failing, so polling never sees content and the (empty)
	// original is restored. No error escapes.
	_, ok := p.CaptureSelection(context.Background())

	if ok {
		t.Fatal("CaptureSelection() ok = true, want false")
	}
}

func TestCaptureSelectionWriteFailuresSwallowed(t *testing.T) {
	device := &fakeDevice{content: "orig", writeErr: errors.New("pasteboard locked")}
	injector := &fakeInjector{device: device, copyPayload: "", menuPayload: ""}
	p := newTestProtocol(testConfig(), device, injector)

	_, ok := p.CaptureSelection(context.Background())

	if ok {
		t.Fatal("CaptureSelection() ok = true, want false")
	}
}

func TestReplaceSelection(t *testing.T) {
	device := &fakeDevice{}
	injector := &fakeInjector{device: device}
	p := newTestProtocol(testConfig(), device, injector)

	if !p.ReplaceSelection(context.Background(), "new text") {
		t.Fatal("ReplaceSelection() = false, want true")
	}

	if device.content != "new text" {
		t.Errorf("clipboard = %q, want %q", device.content, "new text")
	}

	if injector.pasteCalls != 1 {
		t.Errorf("pasteCalls = %d, want 1", injector.pasteCalls)
	}
}

func TestReplaceSelectionPasteFailureKeepsClipboard(t *testing.T) {
	device := &fakeDevice{}
	injector := &fakeInjector{device: device, pasteErr: errors.New("timed out")}
	p := newTestProtocol(testConfig(), device, injector)

	if p.ReplaceSelection(context.Background(), "new text") {
		t.Fatal("ReplaceSelection() = true, want false")
	}

	// Manual-paste fallback: the text must still be on the clipboard.
	if device.content != "new text" {
		t.Errorf("clipboard = %q, want %q", device.content, "new text")
	}
}

func TestReplaceSelectionClipboardWriteFailure(t *testing.T) {
	device := &fakeDevice{writeErr: errors.New("pasteboard locked")}
	injector := &fakeInjector{device: device}
	p := newTestProtocol(testConfig(), device, injector)

	if p.ReplaceSelection(context.Background(), "new text") {
		t.Fatal("ReplaceSelection() = true, want false")
	}

	if injector.pasteCalls != 0 {
		t.Errorf("pasteCalls = %d, want 0 when clipboard write fails", injector.pasteCalls)
	}
}

func TestCaptureSelectionContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	device := &fakeDevice{content: "orig"}
	// Copy succeeds but puts nothing up; the cancelled context stops polling.
	injector := &fakeInjector{device: device, copyPayload: "", menuPayload: ""}
	p := newTestProtocol(testConfig(), device, injector)

	_, ok := p.CaptureSelection(ctx)

	if ok {
		t.Fatal("CaptureSelection() ok = true, want false")
	}
}
