package gconf

import (
	"reflect"

	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
	"github.com/easlabs/custody/x"
)

// OwnedConfig is a configuration that names the address allowed to
// update it.
type OwnedConfig interface {
	Unmarshaler
	ValidMarshaler
	GetOwner() custody.Address
}

// UpdateConfigurationHandler applies the Patch field of a message to the
// configuration stored for pkg.
type UpdateConfigurationHandler struct {
	pkg       string
	config    OwnedConfig
	auth      x.Authenticator
	initAdmin func(custody.ReadOnlyKVStore) (custody.Address, error)
}

var _ custody.Handler = (*UpdateConfigurationHandler)(nil)

// NewUpdateConfigurationHandler returns a handler patching the pkg
// configuration. config is only used to load the stored state into.
//
// An existing configuration must be updated by its owner. When none exists
// yet, initConfAdmin names the address allowed to create it. A nil
// initConfAdmin means the configuration can only come from genesis.
func NewUpdateConfigurationHandler(
	pkg string,
	config OwnedConfig,
	auth x.Authenticator,
	initConfAdmin func(custody.ReadOnlyKVStore) (custody.Address, error),
) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{pkg: pkg, config: config, auth: auth, initAdmin: initConfAdmin}
}

func (h UpdateConfigurationHandler) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if err := h.applyTx(ctx, store, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	if err := h.applyTx(ctx, store, tx); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}

func (h UpdateConfigurationHandler) applyTx(ctx custody.Context, store custody.KVStore, tx custody.Tx) error {
	exists, err := h.authorize(ctx, store)
	if err != nil {
		return err
	}
	payload, err := patchPayload(tx)
	if err != nil {
		return errors.Wrap(err, "cannot get message payload")
	}
	if err := patch(h.config, payload, exists); err != nil {
		return errors.Wrap(err, "cannot patch config with message payload")
	}
	if err := Save(store, h.pkg, h.config); err != nil {
		return errors.Wrap(err, "cannot save updated config")
	}
	return nil
}

// authorize loads the stored configuration into h.config and checks the
// signer. It reports whether a configuration existed.
func (h UpdateConfigurationHandler) authorize(ctx custody.Context, store custody.KVStore) (bool, error) {
	err := Load(store, h.pkg, h.config)
	switch {
	case err == nil:
		owner := h.config.GetOwner()
		if owner == nil {
			return true, errors.Wrap(errors.ErrUnauthorized, "configuration has no owner")
		}
		if !h.auth.HasAddress(ctx, owner) {
			return true, errors.Wrap(errors.ErrUnauthorized, "owner did not sign transaction")
		}
		return true, nil
	case !errors.ErrNotFound.Is(err):
		return false, errors.Wrap(err, "load current configuration")
	case h.initAdmin == nil:
		return false, errors.Wrap(errors.ErrUnauthorized, "configuration does not exist and cannot be initialized")
	}

	admin, err := h.initAdmin(store)
	if err != nil {
		return false, errors.Wrap(err, "get init admin")
	}
	if !h.auth.HasAddress(ctx, admin) {
		return false, errors.Wrap(errors.ErrUnauthorized, "initialization admin signature required")
	}
	return false, nil
}

// Fields tagged `gconf:"immutable"` are set when the configuration is
// created and cannot be changed by a patch afterwards.
const immutableTag = "immutable"

// patch copies the non-zero payload fields into config. Once the
// configuration exists, a payload changing an immutable field is rejected
// as a whole and config is left untouched.
func patch(config OwnedConfig, payload OwnedConfig, exists bool) error {
	if !reflect.TypeOf(payload).ConvertibleTo(reflect.TypeOf(config)) {
		return errors.Wrap(errors.ErrMsg, "config in message doesn't match store")
	}
	dst := reflect.ValueOf(config).Elem()
	src := reflect.ValueOf(payload).Elem()

	var set []int
	for i := 0; i < dst.NumField(); i++ {
		val := src.Field(i)
		if isZero(val) {
			continue
		}
		field := dst.Type().Field(i)
		if exists && field.Tag.Get("gconf") == immutableTag &&
			!reflect.DeepEqual(val.Interface(), dst.Field(i).Interface()) {
			return errors.Wrapf(errors.ErrImmutable, "%s is set at genesis", field.Name)
		}
		set = append(set, i)
	}
	for _, i := range set {
		dst.Field(i).Set(src.Field(i))
	}
	return nil
}

func isZero(val reflect.Value) bool {
	return reflect.DeepEqual(val.Interface(), reflect.Zero(val.Type()).Interface())
}

// patchPayload returns the validated Patch field of the message carried by
// tx. The field must be a non-nil pointer to an OwnedConfig.
func patchPayload(tx custody.Tx) (OwnedConfig, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	container := reflect.ValueOf(msg)
	if container.Kind() != reflect.Ptr || container.Elem().Kind() != reflect.Struct {
		return nil, errors.Wrapf(errors.ErrInput, "invalid message container value: %T", msg)
	}
	field := container.Elem().FieldByName("Patch")
	switch {
	case !field.IsValid() || field.Kind() != reflect.Ptr:
		return nil, errors.Wrapf(errors.ErrInput, `"Patch" field missing in %T`, msg)
	case field.IsNil():
		return nil, errors.Wrap(errors.ErrState, `"Patch" field is required`)
	}
	payload, ok := field.Interface().(OwnedConfig)
	if !ok {
		return nil, errors.Wrap(errors.ErrInput, `"Patch" field is of a wrong type`)
	}
	return payload, nil
}
