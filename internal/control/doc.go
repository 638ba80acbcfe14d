// Package control is the command surface of the client: it turns
// friendly names into gateway commands.
//
// Two commands exist. SetDimState drives switch and dim actuators
// through StatusControlFunction/controlDevice; TriggerScene fires
// scenes through SceneFunction/triggerScene. Both resolve names via the
// directory and refuse to touch the network for unknown names or
// invalid dim values.
//
// The gateway acknowledges commands with {"status":"ok"}. A different
// status resolves to false rather than an error: the command was
// delivered and the gateway declined it, which callers treat as a
// negative answer, not a fault.
//
// Every command comes in a synchronous and an asynchronous (Go*) form;
// the synchronous form is a receive from the asynchronous form's Done
// channel, so there is exactly one dispatch path per command.
package control
