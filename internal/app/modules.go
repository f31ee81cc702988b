package app

import (
	"github.com/vk/capscope/internal/registry"
	"github.com/vk/capscope/modules/clock"
	"github.com/vk/capscope/modules/envvars"
	"github.com/vk/capscope/modules/httpclient"
	"github.com/vk/capscope/modules/printer"
	"github.com/vk/capscope/modules/socketio"
)

// coreModules is the definitive list of all implementation modules that are
// compiled into the capscope binary.
var coreModules = []registry.Module{
	&printer.Module{},
	&envvars.Module{},
	&httpclient.Module{},
	&clock.Module{},
	&socketio.Module{},
}
