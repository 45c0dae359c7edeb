package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tomyan/screenwrap/dom"
	"github.com/tomyan/screenwrap/internal/chrome"
	"github.com/tomyan/screenwrap/wrap"
)

// DefaultTimeout bounds each protocol round trip made on behalf of a query or
// action.
const DefaultTimeout = 10 * time.Second

// Engine renders trees into a Chrome tab. It implements wrap.Engine.
type Engine struct {
	client     *chrome.Client
	targetID   string
	root       int64
	body       int64
	log        *zap.Logger
	timeout    time.Duration
	testIDAttr string
	debugOut   io.Writer

	stopConsole func()
	consoleDone chan struct{}
}

var _ wrap.Engine = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithLogger sets the engine's logger. Page console output is logged to it.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithTestIDAttribute changes the attribute matched by test id queries.
func WithTestIDAttribute(name string) Option {
	return func(e *Engine) { e.testIDAttr = name }
}

// WithDebugOutput sets where Debug writes its dump.
func WithDebugOutput(w io.Writer) Option {
	return func(e *Engine) { e.debugOut = w }
}

// Connect attaches to Chrome's debug port at host:port and opens a blank tab
// to render into.
func Connect(ctx context.Context, host string, port int, opts ...Option) (*Engine, error) {
	e := &Engine{
		log:        zap.NewNop(),
		timeout:    DefaultTimeout,
		testIDAttr: dom.DefaultTestIDAttribute,
		debugOut:   os.Stdout,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.Named("browser")

	client, err := chrome.Connect(ctx, host, port, chrome.WithLogger(e.log))
	if err != nil {
		return nil, err
	}
	e.client = client

	if err := e.open(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return e, nil
}

func (e *Engine) open(ctx context.Context) error {
	targetID, err := e.client.NewTab(ctx, "")
	if err != nil {
		return err
	}
	e.targetID = targetID

	if e.root, err = e.client.Document(ctx, targetID); err != nil {
		return fmt.Errorf("loading document: %w", err)
	}
	if e.body, err = e.client.QuerySelector(ctx, targetID, e.root, "body"); err != nil {
		return fmt.Errorf("locating body: %w", err)
	}

	messages, stop, err := e.client.CaptureConsole(ctx, targetID)
	if err != nil {
		return fmt.Errorf("capturing console: %w", err)
	}
	e.stopConsole = stop
	e.consoleDone = make(chan struct{})
	go func() {
		defer close(e.consoleDone)
		for msg := range messages {
			e.log.Info("console", zap.String("type", msg.Type), zap.String("text", msg.Text))
		}
	}()

	e.log.Debug("tab opened", zap.String("target", targetID))
	return nil
}

// Close closes the tab and the protocol connection.
func (e *Engine) Close() error {
	if e.stopConsole != nil {
		e.stopConsole()
		<-e.consoleDone
	}

	ctx, cancel := e.callContext()
	defer cancel()
	if err := e.client.CloseTab(ctx, e.targetID); err != nil {
		e.log.Debug("closing tab", zap.Error(err))
	}
	return e.client.Close()
}

// Mount renders tree into a fresh container appended to the tab's body.
func (e *Engine) Mount(tree any) (*Screen, error) {
	markup, err := dom.HTML(tree)
	if err != nil {
		return nil, err
	}

	ctx, cancel := e.callContext()
	defer cancel()

	id := "screenwrap-" + uuid.NewString()
	quoted, _ := json.Marshal(id)
	_, err = e.client.Evaluate(ctx, e.targetID, fmt.Sprintf(
		`(() => { const el = document.createElement('div'); el.id = %s; document.body.appendChild(el); return true; })()`,
		quoted,
	))
	if err != nil {
		return nil, fmt.Errorf("creating container: %w", err)
	}

	container, err := e.client.QuerySelector(ctx, e.targetID, e.root, "#"+id)
	if err != nil {
		return nil, fmt.Errorf("locating container: %w", err)
	}

	s := &Screen{
		id:        id,
		engine:    e,
		container: container,
	}
	s.queries = queries{engine: e, scope: e.body}

	if err := s.setInner(ctx, markup); err != nil {
		return nil, err
	}
	s.mounted = true

	e.log.Debug("rendered", zap.String("screen", id))
	return s, nil
}

// Render implements wrap.Engine.
func (e *Engine) Render(tree any) (wrap.Screen, error) {
	s, err := e.Mount(tree)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Within returns queries bound to the subtree below el.
func (e *Engine) Within(el wrap.Element) wrap.Queries {
	elem, err := e.elementOf(el)
	if err != nil {
		return errQueries{err: err}
	}
	return queries{engine: e, scope: elem.nodeID}
}

// Click dispatches a left click at the centre of el.
func (e *Engine) Click(el wrap.Element) error {
	return e.act(el, "click", func(ctx context.Context, nodeID int64) error {
		return e.client.ClickNode(ctx, e.targetID, nodeID)
	})
}

// Focus focuses el.
func (e *Engine) Focus(el wrap.Element) error {
	return e.act(el, "focus", func(ctx context.Context, nodeID int64) error {
		return e.client.FocusNode(ctx, e.targetID, nodeID)
	})
}

// Blur removes focus from el.
func (e *Engine) Blur(el wrap.Element) error {
	return e.act(el, "blur", func(ctx context.Context, nodeID int64) error {
		return e.client.BlurNode(ctx, e.targetID, nodeID)
	})
}

// Change sets el's value and fires input and change events.
func (e *Engine) Change(el wrap.Element, value string) error {
	return e.act(el, "change", func(ctx context.Context, nodeID int64) error {
		return e.client.SetNodeValue(ctx, e.targetID, nodeID, value)
	})
}

func (e *Engine) act(el wrap.Element, name string, fn func(context.Context, int64) error) error {
	elem, err := e.elementOf(el)
	if err != nil {
		return err
	}

	ctx, cancel := e.callContext()
	defer cancel()

	e.log.Debug(name, zap.Stringer("target", elem))
	if err := fn(ctx, elem.nodeID); err != nil {
		return fmt.Errorf("%s %s: %w", name, elem, err)
	}
	return nil
}

func (e *Engine) elementOf(el wrap.Element) (*Element, error) {
	elem, ok := el.(*Element)
	if !ok || elem == nil || elem.engine != e {
		return nil, fmt.Errorf("%w: %T", dom.ErrForeignElement, el)
	}
	return elem, nil
}

func (e *Engine) callContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), e.timeout)
}
