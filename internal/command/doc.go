// Package command implements the capability registry and the command
// dispatcher.
//
// A Descriptor declares one command and sets a handler for each capability it
// supports: ChatInput, LegacyText, MessageAction and UserAction. The Registry
// keeps one name table per capability. Names are case-folded, and registering
// a name a table already holds is a logged no-op for that table, so the same
// name may live in several tables, possibly pointing at different descriptors.
//
// The Dispatcher classifies each inbound event, resolves the (name,
// capability) pair and calls the handler:
//
//	registry := command.NewRegistry(logger)
//	_ = registry.Register(ctx, &command.Descriptor{
//	    Name: "echo",
//	    ChatInput: &command.ChatInputSpec{
//	        Description: "Echo text back",
//	        Options: []command.Option{{Name: "text", Description: "Text", Type: platform.OptionString, Required: true}},
//	        Handler: func(ctx context.Context, evt *platform.InteractionEvent, opts command.Options) error {
//	            text, _ := opts.String("text")
//	            return evt.Responder.Reply(ctx, platform.Response{Content: text})
//	        },
//	    },
//	})
//	dispatcher := command.NewDispatcher(command.DispatcherConfig{Registry: registry, Logger: logger})
//	_ = dispatcher.Install(eventsManager)
//
// Two-phase flows use a Correlator: phase one stores a payload keyed by the
// interaction id and opens a modal, and phase two consumes the payload at most
// once.
package command
