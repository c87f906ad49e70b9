package schemarpc

import (
	connpkg "github.com/drblury/schemarpc/conn"
	runtimepkg "github.com/drblury/schemarpc/internal/runtime"
	bindingpkg "github.com/drblury/schemarpc/internal/runtime/binding"
	configpkg "github.com/drblury/schemarpc/internal/runtime/config"
	correlatepkg "github.com/drblury/schemarpc/internal/runtime/correlate"
	errspkg "github.com/drblury/schemarpc/internal/runtime/errors"
	idspkg "github.com/drblury/schemarpc/internal/runtime/ids"
	jsoncodec "github.com/drblury/schemarpc/internal/runtime/jsoncodec"
	loggingpkg "github.com/drblury/schemarpc/internal/runtime/logging"
	metadatapkg "github.com/drblury/schemarpc/internal/runtime/metadata"
	metricspkg "github.com/drblury/schemarpc/internal/runtime/metrics"
	namespkg "github.com/drblury/schemarpc/internal/runtime/names"
	schemapkg "github.com/drblury/schemarpc/internal/runtime/schema"
	validatepkg "github.com/drblury/schemarpc/internal/runtime/validate"
	wirepkg "github.com/drblury/schemarpc/wire"
)

type (
	Config             = configpkg.Config
	Client             = runtimepkg.Client
	ClientDependencies = runtimepkg.ClientDependencies

	MiddlewareBuilder      = runtimepkg.MiddlewareBuilder
	MiddlewareRegistration = runtimepkg.MiddlewareRegistration

	// Schema catalog types
	Catalog               = schemapkg.Catalog
	StaticCatalog         = schemapkg.StaticCatalog
	DomainDescriptor      = schemapkg.DomainDescriptor
	CommandDescriptor     = schemapkg.CommandDescriptor
	TypeDescriptor        = schemapkg.TypeDescriptor
	ParameterDescriptor   = schemapkg.ParameterDescriptor
	ReturnFieldDescriptor = schemapkg.ReturnFieldDescriptor

	// Binding types
	Binding          = bindingpkg.Binding
	BindingTable     = bindingpkg.Table
	BindingGenerator = bindingpkg.Generator
	GeneratorOptions = bindingpkg.GeneratorOptions
	Params           = bindingpkg.Params
	Param            = bindingpkg.Param
	CallFunc         = bindingpkg.CallFunc
	Middleware       = bindingpkg.Middleware
	ConnectionSource = bindingpkg.ConnectionSource

	// Validation types
	Validator         = validatepkg.Validator
	ValidatorRegistry = validatepkg.Registry
	Field             = validatepkg.Field

	// Correlation
	Correlator = correlatepkg.Correlator

	// Connection types
	Connection         = connpkg.Connection
	ConnectionBuilder  = connpkg.Builder
	ConnectionConfig   = connpkg.Config
	ConnectionRegistry = connpkg.Registry
	Capabilities       = connpkg.Capabilities

	// Wire frame types
	Request     = wirepkg.Request
	Reply       = wirepkg.Reply
	ErrorDetail = wirepkg.ErrorDetail

	Metadata = metadatapkg.Metadata

	LogFields     = loggingpkg.LogFields
	ServiceLogger = loggingpkg.ServiceLogger

	CallMetrics = metricspkg.CallMetrics

	RemoteCommandError = errspkg.RemoteCommandError
	SchemaGapError     = errspkg.SchemaGapError
)

var (
	NewClient      = runtimepkg.NewClient
	TryNewClient   = runtimepkg.TryNewClient
	ValidateConfig = configpkg.ValidateConfig

	DefaultMiddlewares = runtimepkg.DefaultMiddlewares
	LogCallsMiddleware = runtimepkg.LogCallsMiddleware
	TracerMiddleware   = runtimepkg.TracerMiddleware
	MetricsMiddleware  = runtimepkg.MetricsMiddleware

	// Schema catalog constructors
	NewStaticCatalog = schemapkg.NewStaticCatalog

	// Binding generation
	NewBindingGenerator = bindingpkg.NewGenerator
	NewBindingTable     = bindingpkg.NewTable

	// Validation
	NewValidatorRegistry = validatepkg.NewRegistry

	// Correlation
	NewCorrelator = correlatepkg.New

	// Connection registry
	DefaultConnectionRegistry = connpkg.DefaultRegistry
	RegisterConnection        = connpkg.Register
	BuildConnection           = connpkg.Build

	// Name mapping between protocol form and Go-internal form
	ExternalToInternal = namespkg.ExternalToInternal
	InternalToExternal = namespkg.InternalToExternal
	QualifyCommand     = namespkg.Qualify

	Marshal       = jsoncodec.Marshal
	MarshalIndent = jsoncodec.MarshalIndent
	Unmarshal     = jsoncodec.Unmarshal
	Encode        = jsoncodec.Encode
	Decode        = jsoncodec.Decode

	ErrCatalogRequired     = errspkg.ErrCatalogRequired
	ErrConnectionRequired  = errspkg.ErrConnectionRequired
	ErrCorrelatorRequired  = errspkg.ErrCorrelatorRequired
	ErrConfigRequired      = errspkg.ErrConfigRequired
	ErrLoggerRequired      = errspkg.ErrLoggerRequired
	ErrDomainRequired      = errspkg.ErrDomainRequired
	ErrCommandNameRequired = errspkg.ErrCommandNameRequired
	ErrBindingNameTaken    = errspkg.ErrBindingNameTaken

	NewSlogServiceLogger      = loggingpkg.NewSlogServiceLogger
	NewWatermillServiceLogger = loggingpkg.NewWatermillServiceLogger

	NewMetadata = metadatapkg.New

	CreateULID = idspkg.CreateULID
)

// Schema type kinds understood by the validator generator.
const (
	KindEnum    = schemapkg.KindEnum
	KindObject  = schemapkg.KindObject
	KindString  = schemapkg.KindString
	KindNumber  = schemapkg.KindNumber
	KindInteger = schemapkg.KindInteger
	KindBoolean = schemapkg.KindBoolean
)

// Metadata keys attached to transport messages.
const (
	MetadataKeyCommandID = metadatapkg.KeyCommandID
	MetadataKeyMethod    = metadatapkg.KeyMethod
)
