package gconf

import (
	"reflect"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/x"
)

// OwnedConfig is a configuration with an Owner field. Only the owner can
// replace it.
type OwnedConfig interface {
	Configuration
	GetOwner() barter.Address
}

// UpdateConfigurationHandler replaces the configuration of one package
// with the Patch field of the message.
type UpdateConfigurationHandler struct {
	pkg string
	// config is only used for its type.
	config    OwnedConfig
	auth      x.Authenticator
	initAdmin func(barter.ReadOnlyKVStore) (barter.Address, error)
}

var _ barter.Handler = UpdateConfigurationHandler{}

// NewUpdateConfigurationHandler creates the handler for pkg. The message
// must be signed by the current owner. If nothing is stored yet,
// initConfAdmin names who may create the configuration. Without it a
// missing configuration cannot be created by a message.
func NewUpdateConfigurationHandler(
	pkg string,
	config OwnedConfig,
	auth x.Authenticator,
	initConfAdmin func(barter.ReadOnlyKVStore) (barter.Address, error),
) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{
		pkg:       pkg,
		config:    config,
		auth:      auth,
		initAdmin: initConfAdmin,
	}
}

func (h UpdateConfigurationHandler) Check(ctx barter.Context, store barter.KVStore, tx barter.Tx) (*barter.CheckResult, error) {
	if _, err := h.validate(ctx, store, tx); err != nil {
		return nil, err
	}
	return &barter.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx barter.Context, store barter.KVStore, tx barter.Tx) (*barter.DeliverResult, error) {
	conf, err := h.validate(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	if err := Save(store, h.pkg, conf); err != nil {
		return nil, errors.Wrap(err, "save configuration")
	}
	barter.GetLogger(ctx).Debug("configuration updated", "package", h.pkg)
	return &barter.DeliverResult{}, nil
}

// validate returns the configuration to store.
func (h UpdateConfigurationHandler) validate(ctx barter.Context, store barter.ReadOnlyKVStore, tx barter.Tx) (OwnedConfig, error) {
	current, err := h.authorize(ctx, store)
	if err != nil {
		return nil, err
	}
	patch, err := patchPayload(tx)
	if err != nil {
		return nil, errors.Wrap(err, "patch")
	}
	if reflect.TypeOf(patch) != reflect.TypeOf(h.config) {
		return nil, errors.Wrapf(errors.ErrMsg, "patch of type %T cannot update %T", patch, h.config)
	}
	if patch.GetOwner() == nil && current != nil {
		if err := setOwner(patch, current.GetOwner()); err != nil {
			return nil, err
		}
	}
	if err := patch.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return patch, nil
}

// authorize checks that the owner, or the init admin for a missing
// configuration, signed the transaction. It returns the stored
// configuration, nil if there is none.
func (h UpdateConfigurationHandler) authorize(ctx barter.Context, store barter.ReadOnlyKVStore) (OwnedConfig, error) {
	current := reflect.New(reflect.TypeOf(h.config).Elem()).Interface().(OwnedConfig)
	err := Load(store, h.pkg, current)
	switch {
	case err == nil:
		owner := current.GetOwner()
		if owner == nil || !h.auth.HasAddress(ctx, owner) {
			return nil, errors.Wrap(errors.ErrUnauthorized, "owner signature required")
		}
		return current, nil
	case errors.ErrNotFound.Is(err):
		if h.initAdmin == nil {
			return nil, errors.Wrapf(errors.ErrUnauthorized, "no %s configuration to update", h.pkg)
		}
		admin, err := h.initAdmin(store)
		if err != nil {
			return nil, errors.Wrap(err, "init admin")
		}
		if !h.auth.HasAddress(ctx, admin) {
			return nil, errors.Wrap(errors.ErrUnauthorized, "init admin signature required")
		}
		return nil, nil
	default:
		return nil, errors.Wrap(err, "load configuration")
	}
}

func setOwner(conf OwnedConfig, owner barter.Address) error {
	field := reflect.ValueOf(conf).Elem().FieldByName("Owner")
	if !field.IsValid() || !field.CanSet() || field.Type() != reflect.TypeOf(owner) {
		return errors.Wrapf(errors.ErrHuman, "%T has no Owner field", conf)
	}
	field.Set(reflect.ValueOf(owner))
	return nil
}

// patchPayload returns the Patch field of the validated message.
func patchPayload(tx barter.Tx) (OwnedConfig, error) {
	msg, err := tx.GetMsg()
	switch {
	case err != nil:
		return nil, err
	case msg == nil:
		return nil, errors.Wrap(errors.ErrInvalidInput, "no message")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "message %T is not a struct pointer", msg)
	}
	field := v.Elem().FieldByName("Patch")
	if !field.IsValid() || field.Kind() != reflect.Ptr {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "message %T has no Patch", msg)
	}
	if field.IsNil() {
		return nil, errors.Wrap(errors.ErrState, "empty Patch")
	}
	patch, ok := field.Interface().(OwnedConfig)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "Patch of type %s", field.Type())
	}
	return patch, nil
}
