// Package commands turns user command lines into localized replies.
package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	apperrors "github.com/vmoranv/aolastar/internal/platform/errors"
	"github.com/vmoranv/aolastar/internal/platform/errors/i18n"
	"github.com/vmoranv/aolastar/internal/services/aolastar/codec"
	"github.com/vmoranv/aolastar/internal/services/aolastar/domain"
)

// Command names accepted by Dispatch.
const (
	CommandHelp           = "ar_help"
	CommandPackets        = "ar_existingpacket"
	CommandAttribute      = "ar_attr"
	CommandAttributeImage = "ar_attr_image"
	CommandDecrypt        = "ar_decrypt"
	CommandEncrypt        = "ar_encrypt"
)

// Result is one command reply. Code is empty on success.
type Result struct {
	Text  string
	Image []byte
	Code  apperrors.Code
}

// Service is the query surface the handler reads from.
type Service interface {
	PageSize() int
	ListPackets(ctx context.Context, conversationID string, rawArgument string) (domain.PageResult, error)
	ListAttributes(ctx context.Context) (domain.AttributeList, error)
	GetRelationGrouping(ctx context.Context, attributeID int) (domain.RelationGrouping, error)
}

// ImageRenderer draws relation groupings.
type ImageRenderer interface {
	Render(grouping domain.RelationGrouping, attributeName string) ([]byte, error)
}

// Options configures a Handler.
type Options struct {
	// Locale selects the reply language; zh-Hans by default.
	Locale string
	Logf   func(string, ...any)
}

// Handler answers commands. A handler without a service answers every data
// command with the configuration-missing text.
type Handler struct {
	service  Service
	renderer ImageRenderer
	tag      language.Tag
	errors   *i18n.Catalog
	logf     func(string, ...any)
}

// NewHandler builds a command handler.
func NewHandler(service Service, renderer ImageRenderer, opts Options) *Handler {
	logf := opts.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Handler{
		service:  service,
		renderer: renderer,
		tag:      i18n.Tag(opts.Locale),
		errors:   i18n.GetCatalog(opts.Locale),
		logf:     logf,
	}
}

// Dispatch parses one command line such as "/ar_attr 3" and runs it.
func (h *Handler) Dispatch(ctx context.Context, conversationID string, line string) (result Result) {
	defer h.recoverInto(&result)

	name, argument := splitCommand(line)
	switch name {
	case CommandHelp:
		return h.Help()
	case CommandPackets:
		return h.HandlePacketCommand(ctx, conversationID, argument)
	case CommandAttribute:
		return h.HandleAttributeCommand(ctx, argument)
	case CommandAttributeImage:
		return h.HandleAttributeImageCommand(ctx, argument)
	case CommandDecrypt:
		return h.HandleDecrypt(argument)
	case CommandEncrypt:
		return h.HandleEncrypt(argument)
	default:
		return Result{
			Text: h.printer().Sprintf("command.unknown", name),
			Code: apperrors.CodeInvalidArgument,
		}
	}
}

// Help returns the command overview.
func (h *Handler) Help() Result {
	pageSize := domain.DefaultPageSize
	if h.service != nil {
		pageSize = h.service.PageSize()
	}
	return Result{Text: h.printer().Sprintf("help.text", pageSize)}
}

// HandlePacketCommand lists, pages or searches packets for a conversation.
func (h *Handler) HandlePacketCommand(ctx context.Context, conversationID string, argument string) (result Result) {
	defer h.recoverInto(&result)

	if h.service == nil {
		return h.notConfigured()
	}
	page, err := h.service.ListPackets(ctx, conversationID, argument)
	if err != nil {
		return h.errorResult(err)
	}
	p := h.printer()
	if page.Clamped {
		if strings.EqualFold(strings.TrimSpace(argument), "prev") {
			return Result{Text: p.Sprintf("packets.first_page")}
		}
		return Result{Text: p.Sprintf("packets.last_page")}
	}
	return Result{Text: formatPacketPage(p, page)}
}

// HandleAttributeCommand lists attributes for "ls" and shows relations for an
// attribute id otherwise.
func (h *Handler) HandleAttributeCommand(ctx context.Context, argument string) (result Result) {
	defer h.recoverInto(&result)

	if h.service == nil {
		return h.notConfigured()
	}
	p := h.printer()
	argument = strings.TrimSpace(argument)
	switch {
	case argument == "":
		return Result{Text: p.Sprintf("attributes.usage"), Code: apperrors.CodeInvalidArgument}
	case strings.EqualFold(argument, "ls"), strings.EqualFold(argument, "list"):
		list, err := h.service.ListAttributes(ctx)
		if err != nil {
			return h.errorResult(err)
		}
		return Result{Text: formatAttributeList(p, list)}
	}

	id, err := parseAttributeID(argument, p.Sprintf("attributes.expected_id_or_ls"))
	if err != nil {
		return h.errorResult(err)
	}
	grouping, err := h.service.GetRelationGrouping(ctx, id)
	if err != nil {
		return h.errorResult(err)
	}
	return Result{Text: formatRelations(p, grouping)}
}

// HandleAttributeImageCommand renders the relations of one attribute.
func (h *Handler) HandleAttributeImageCommand(ctx context.Context, argument string) (result Result) {
	defer h.recoverInto(&result)

	if h.service == nil {
		return h.notConfigured()
	}
	p := h.printer()
	argument = strings.TrimSpace(argument)
	if argument == "" {
		return Result{Text: p.Sprintf("attributes.image_usage"), Code: apperrors.CodeInvalidArgument}
	}
	id, err := parseAttributeID(argument, p.Sprintf("attributes.expected_id"))
	if err != nil {
		return h.errorResult(err)
	}
	grouping, err := h.service.GetRelationGrouping(ctx, id)
	if err != nil {
		return h.errorResult(err)
	}
	if h.renderer == nil {
		return h.errorResult(apperrors.WithMetadata(
			apperrors.CodeRenderUnavailable,
			"no renderer configured",
			map[string]string{apperrors.MetadataAttributeID: strconv.Itoa(id)},
		))
	}
	image, err := h.renderer.Render(grouping, grouping.AttributeName)
	if err != nil {
		return h.errorResult(err)
	}
	text := p.Sprintf("relations.image_caption", grouping.AttributeName)
	if grouping.Stale {
		text = p.Sprintf("stale.notice") + "\n" + text
	}
	return Result{Text: text, Image: image}
}

// HandleDecrypt decodes Base64 content into indented JSON.
func (h *Handler) HandleDecrypt(content string) (result Result) {
	defer h.recoverInto(&result)

	decoded, err := codec.Decode(content)
	if err != nil {
		return h.errorResult(err)
	}
	return Result{Text: decoded}
}

// HandleEncrypt encodes JSON content as Base64 of its compact form.
func (h *Handler) HandleEncrypt(content string) (result Result) {
	defer h.recoverInto(&result)

	encoded, err := codec.Encode(content)
	if err != nil {
		return h.errorResult(err)
	}
	return Result{Text: encoded}
}

func (h *Handler) printer() *message.Printer {
	return message.NewPrinter(h.tag)
}

func (h *Handler) notConfigured() Result {
	return h.errorResult(apperrors.New(apperrors.CodeConfigurationMissing, "command handler has no service"))
}

// errorResult maps err onto localized text. Errors without a domain code are
// logged since their detail never reaches the user.
func (h *Handler) errorResult(err error) Result {
	code := apperrors.CodeOf(err)
	if code == apperrors.CodeUnknown {
		h.logf("commands: unexpected error: %v", err)
	}
	return Result{
		Text: h.errors.Format(string(code), apperrors.MetadataOf(err)),
		Code: code,
	}
}

func (h *Handler) recoverInto(result *Result) {
	if recovered := recover(); recovered != nil {
		h.logf("commands: recovered panic: %v", recovered)
		*result = h.errorResult(apperrors.New(apperrors.CodeUnknown, fmt.Sprint(recovered)))
	}
}

// splitCommand separates the command name from the rest of the line. The
// leading slash is optional and the name is case-insensitive; the argument
// keeps its inner whitespace.
func splitCommand(line string) (string, string) {
	line = strings.TrimPrefix(strings.TrimSpace(line), "/")
	name, argument := line, ""
	if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
		name, argument = line[:i], line[i:]
	}
	return strings.ToLower(name), strings.TrimSpace(argument)
}

func parseAttributeID(argument string, expected string) (int, error) {
	id, err := strconv.Atoi(argument)
	if err != nil {
		return 0, apperrors.WrapWithMetadata(
			apperrors.CodeInvalidArgument,
			"attribute id is not a number",
			map[string]string{
				apperrors.MetadataArgument: argument,
				apperrors.MetadataExpected: expected,
			},
			err,
		)
	}
	return id, nil
}
