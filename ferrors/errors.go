package ferrors

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	MetaTenantID  = "tenant_id"
	MetaPortal    = "portal"
	MetaRole      = "role"
	MetaModuleKey = "module_key"
	MetaStore     = "store"
	MetaAdapter   = "adapter"
	MetaDomain    = "domain"
	MetaTable     = "table"
	MetaOperation = "operation"
	MetaScope     = "scope"
	MetaPath      = "path"
)

const (
	TextCodeTenantIDRequired     = "TENANT_ID_REQUIRED"
	TextCodeTenantColorsRequired = "TENANT_COLORS_REQUIRED"
	TextCodeRoleTableIncomplete  = "ROLE_TABLE_INCOMPLETE"
	TextCodeRoleUnknown          = "ROLE_UNKNOWN"
	TextCodeModuleUnknown        = "MODULE_UNKNOWN"
	TextCodePortalInvalid        = "PORTAL_INVALID"
	TextCodeStoreRequired        = "STORE_REQUIRED"
	TextCodeResolverRequired     = "RESOLVER_REQUIRED"
	TextCodeSnapshotInvalid      = "SNAPSHOT_INVALID"
	TextCodeAdapterFailed        = "ADAPTER_FAILED"
	TextCodeStoreReadFailed      = "STORE_READ_FAILED"
	TextCodeStoreWriteFailed     = "STORE_WRITE_FAILED"
	TextCodeConfigInvalid        = "CONFIG_INVALID"
)

var (
	ErrTenantIDRequired     = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeTenantIDRequired, "tenant id is required")
	ErrTenantColorsRequired = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeTenantColorsRequired, "tenant colors are required")
	ErrRoleTableIncomplete  = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeRoleTableIncomplete, "role access table must cover every role")
	ErrRoleUnknown          = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeRoleUnknown, "unknown staff role")
	ErrModuleUnknown        = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeModuleUnknown, "unknown module key")
	ErrPortalInvalid        = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodePortalInvalid, "portal definition is invalid")
	ErrStoreRequired        = newSentinel(goerrors.CategoryOperation, goerrors.CodeInternal, TextCodeStoreRequired, "store is required")
	ErrResolverRequired     = newSentinel(goerrors.CategoryOperation, goerrors.CodeInternal, TextCodeResolverRequired, "resolver is required")
	ErrSnapshotInvalid      = newSentinel(goerrors.CategoryInternal, goerrors.CodeInternal, TextCodeSnapshotInvalid, "snapshot is invalid")
	ErrConfigInvalid        = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeConfigInvalid, "tenant config is invalid")
)

func newSentinel(category goerrors.Category, code int, textCode, message string) *goerrors.Error {
	err := goerrors.New(message, category).WithTextCode(textCode)
	if code != 0 {
		err.WithCode(code)
	}
	return err
}

func IsSentinel(err error) bool {
	return err == ErrTenantIDRequired ||
		err == ErrTenantColorsRequired ||
		err == ErrRoleTableIncomplete ||
		err == ErrRoleUnknown ||
		err == ErrModuleUnknown ||
		err == ErrPortalInvalid ||
		err == ErrStoreRequired ||
		err == ErrResolverRequired ||
		err == ErrSnapshotInvalid ||
		err == ErrConfigInvalid
}

func WrapSentinel(sentinel *goerrors.Error, message string, meta map[string]any) *goerrors.Error {
	if sentinel == nil {
		return nil
	}
	if message == "" {
		message = sentinel.Message
	}
	err := goerrors.New(message, sentinel.Category).
		WithTextCode(sentinel.TextCode).
		WithCode(sentinel.Code).
		WithSeverity(sentinel.Severity)
	err.Source = sentinel
	if meta != nil {
		err.WithMetadata(meta)
	}
	return err
}

func Wrap(err error, category goerrors.Category, textCode, message string, meta map[string]any) *goerrors.Error {
	if err == nil {
		return nil
	}
	if IsSentinel(err) {
		if sentinel, ok := err.(*goerrors.Error); ok {
			return WrapSentinel(sentinel, "", meta)
		}
	}
	if rich, ok := err.(*goerrors.Error); ok {
		clone := rich.Clone()
		if clone.TextCode == "" && textCode != "" {
			clone.TextCode = textCode
		}
		if clone.Message == "" && message != "" {
			clone.Message = message
		}
		if meta != nil {
			clone.WithMetadata(meta)
		}
		return clone
	}
	if message == "" {
		message = err.Error()
	}
	wrapped := goerrors.New(message, category).WithTextCode(textCode)
	wrapped.Source = err
	if meta != nil {
		wrapped.WithMetadata(meta)
	}
	return wrapped
}

func New(category goerrors.Category, textCode, message string, meta map[string]any) *goerrors.Error {
	err := goerrors.New(message, category).WithTextCode(textCode)
	if meta != nil {
		err.WithMetadata(meta)
	}
	return err
}

func NewBadInput(textCode, message string, meta map[string]any) *goerrors.Error {
	return New(goerrors.CategoryBadInput, textCode, message, meta)
}

func WrapExternal(err error, textCode, message string, meta map[string]any) *goerrors.Error {
	return Wrap(err, goerrors.CategoryExternal, textCode, message, meta)
}

func NewExternal(textCode, message string, meta map[string]any) *goerrors.Error {
	return New(goerrors.CategoryExternal, textCode, message, meta)
}

func As(err error) (*goerrors.Error, bool) {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich, true
	}
	return nil, false
}
