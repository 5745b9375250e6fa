package orchestrator

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nightsky-edu/astrolearn/backend/internal/model/chat"
	"github.com/nightsky-edu/astrolearn/backend/internal/model/knowledge"
	"github.com/nightsky-edu/astrolearn/backend/internal/service/conversation"
	"github.com/nightsky-edu/astrolearn/backend/internal/service/fallback"
	"github.com/nightsky-edu/astrolearn/backend/internal/service/provider"
)

// Config 编排器的运行参数。外层预算必须严格大于对应适配器的内部超时，
// 否则外层先到期，适配器的分类错误永远没有机会返回。
type Config struct {
	TextBudget   time.Duration
	VisionBudget time.Duration
	HistoryLimit int
	Debug        bool
}

// Capabilities 对外报告当前可用的AI能力。
type Capabilities struct {
	TextMode       string `json:"text_mode"` // live 或 demo
	TextProvider   string `json:"text_provider,omitempty"`
	Vision         bool   `json:"vision"`
	VisionProvider string `json:"vision_provider,omitempty"`
}

const (
	TextModeLive = "live"
	TextModeDemo = "demo"
)

type request struct {
	query   string
	kc      knowledge.Context
	history []provider.Message
	image   *chat.Attachment
}

type result struct {
	out provider.Output
	err error
}

// Orchestrator serializes the conversation pipeline: requests queue behind a
// single worker so turns land in the store in submission order, and every
// reply is appended exactly once.
type Orchestrator struct {
	cfg     Config
	store   *conversation.Store
	catalog knowledge.Catalog
	text    provider.TextAdapter
	vision  *provider.VisionFamily
	fb      *fallback.Responder

	// sleep 可注入，测试中替换为空操作以跳过演示模式的打字延迟。
	sleep func(time.Duration)

	mu           sync.RWMutex
	currentPoint string

	queue chan request
	done  chan struct{}
}

// New wires the pipeline and starts the worker. It fails fast when a budget
// does not leave room for the corresponding adapter timeout.
func New(cfg Config, store *conversation.Store, catalog knowledge.Catalog,
	text provider.TextAdapter, vision *provider.VisionFamily, fb *fallback.Responder) (*Orchestrator, error) {

	if cfg.TextBudget <= text.Timeout() {
		return nil, fmt.Errorf("text budget %v must exceed adapter timeout %v", cfg.TextBudget, text.Timeout())
	}
	if cfg.VisionBudget <= vision.Timeout() {
		return nil, fmt.Errorf("vision budget %v must exceed adapter timeout %v", cfg.VisionBudget, vision.Timeout())
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = provider.HistoryLimit
	}

	o := &Orchestrator{
		cfg:     cfg,
		store:   store,
		catalog: catalog,
		text:    text,
		vision:  vision,
		fb:      fb,
		sleep:   time.Sleep,
		queue:   make(chan request, 64),
		done:    make(chan struct{}),
	}
	go o.run()
	return o, nil
}

// Close drains nothing: queued requests are abandoned, the worker exits
// after the in-flight request finishes.
func (o *Orchestrator) Close() {
	close(o.queue)
	<-o.done
}

// Store exposes the conversation state for read access and subscriptions.
func (o *Orchestrator) Store() *conversation.Store { return o.store }

// SelectPoint switches the knowledge point every later request is grounded
// in. Unknown ids are rejected so the UI cannot desync from the catalog.
func (o *Orchestrator) SelectPoint(pointID string) error {
	if pointID != "" {
		if _, ok := o.catalog.PointByID(pointID); !ok {
			return fmt.Errorf("unknown knowledge point %q", pointID)
		}
	}
	o.mu.Lock()
	o.currentPoint = pointID
	o.mu.Unlock()
	return nil
}

// CurrentPoint returns the selected knowledge point id, empty when none.
func (o *Orchestrator) CurrentPoint() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.currentPoint
}

// Capabilities reports what the configured credentials allow right now.
func (o *Orchestrator) Capabilities() Capabilities {
	caps := Capabilities{TextMode: TextModeDemo}
	if o.text.HasCredential() {
		caps.TextMode = TextModeLive
		caps.TextProvider = o.text.Name()
	}
	if a, ok := o.vision.Select(); ok {
		caps.Vision = true
		caps.VisionProvider = a.Name()
	}
	return caps
}

// HasCapability reports whether a live provider backs the given capability.
// Text without a credential still answers through the demo responder; this
// reports the live path only.
func (o *Orchestrator) HasCapability(kind string) bool {
	switch kind {
	case "text":
		return o.text.HasCredential()
	case "vision":
		return o.vision.Available()
	}
	return false
}

// ClearConversation resets the store; queued requests still execute against
// the snapshot captured at submission time.
func (o *Orchestrator) ClearConversation() {
	o.store.Clear()
}

// SendUserMessage records the user turn and queues the reply work. The
// knowledge context and history window are snapshotted before the turn is
// appended, so the outgoing request never includes the message it answers
// and later selection changes cannot leak into queued work.
func (o *Orchestrator) SendUserMessage(content string, attachments []chat.Attachment) (chat.Turn, error) {
	if content == "" && len(attachments) == 0 {
		return chat.Turn{}, fmt.Errorf("empty message")
	}

	kc := knowledge.BuildContext(o.catalog, o.CurrentPoint())
	history := provider.WindowHistory(o.store.Turns(), o.cfg.HistoryLimit)

	turn := o.store.Append(chat.Turn{
		Role:        chat.RoleUser,
		Content:     content,
		Context:     &kc,
		Attachments: attachments,
	})

	req := request{query: content, kc: kc, history: history}
	for i := range attachments {
		if attachments[i].Kind == chat.AttachmentImage {
			req.image = &attachments[i]
			break
		}
	}

	select {
	case o.queue <- req:
		return turn, nil
	default:
		return turn, fmt.Errorf("conversation queue is full")
	}
}

func (o *Orchestrator) run() {
	defer close(o.done)
	for req := range o.queue {
		o.process(req)
	}
}

func (o *Orchestrator) process(req request) {
	o.store.SetProcessing(true)
	o.store.SetError("")
	defer o.store.SetProcessing(false)

	if req.image != nil {
		o.processVision(req)
		return
	}
	o.processText(req)
}

func (o *Orchestrator) processText(req request) {
	if !o.text.HasCredential() {
		o.respondDemo(req)
		return
	}

	in := provider.Input{
		System:  provider.BuildSystemPreamble(req.kc),
		History: req.history,
		Query:   req.query,
	}
	out, err := o.await(o.cfg.TextBudget, func(ctx context.Context) (provider.Output, error) {
		return o.text.Send(ctx, in)
	})
	if err != nil {
		o.fail(o.text.Name(), err)
		return
	}
	o.store.Append(chat.Turn{Role: chat.RoleAssistant, Content: out.Content, Context: &req.kc})
}

func (o *Orchestrator) processVision(req request) {
	in := provider.Input{
		System:      provider.BuildSystemPreamble(req.kc),
		Query:       buildAnalysisPrompt(req.query, req.kc),
		ImageBase64: req.image.Data,
		ImageMIME:   req.image.MIME,
	}
	out, err := o.await(o.cfg.VisionBudget, func(ctx context.Context) (provider.Output, error) {
		return o.vision.Analyze(ctx, in)
	})
	if err != nil {
		o.fail("vision", err)
		return
	}
	o.store.Append(chat.Turn{Role: chat.RoleAssistant, Content: formatAnalysis(out), Context: &req.kc})
}

// await races the adapter call against the outer budget. The result channel
// is buffered so a reply arriving after the budget expired is dropped on the
// floor instead of blocking the runner goroutine forever.
func (o *Orchestrator) await(budget time.Duration, call func(context.Context) (provider.Output, error)) (provider.Output, error) {
	ctx, cancel := context.WithTimeout(context.Background(), budget)
	defer cancel()

	ch := make(chan result, 1)
	go func() {
		out, err := call(ctx)
		ch <- result{out: out, err: err}
	}()

	select {
	case r := <-ch:
		return r.out, r.err
	case <-ctx.Done():
		return provider.Output{}, &provider.Error{
			Class:    provider.Timeout,
			Provider: "orchestrator",
			Err:      ctx.Err(),
		}
	}
}

func (o *Orchestrator) respondDemo(req request) {
	o.sleep(o.fb.TypingDelay())
	content := o.fb.Respond(req.query, req.kc)
	o.store.Append(chat.Turn{Role: chat.RoleAssistant, Content: content, Context: &req.kc})
}

// fail converts a classified error into the user-facing reply and error flag.
// The raw detail only surfaces in debug mode; logs always carry it.
func (o *Orchestrator) fail(name string, err error) {
	class := provider.ClassOf(err)
	msg := friendlyMessage(class)
	if o.cfg.Debug {
		msg = fmt.Sprintf("%s（错误详情：%v）", msg, err)
	}
	log.Printf("[orchestrator] %s request failed (%s): %v", name, class, err)
	o.store.SetError(msg)
	o.store.Append(chat.Turn{Role: chat.RoleAssistant, Content: msg})
}
