package verify

import "github.com/etched-id/etched-go/pkg/das"

type Action string

const (
	ActionVerifyCreator   Action = "verify-creator"
	ActionAddCreator      Action = "add-creator"
	ActionAlreadyVerified Action = "already-verified"
	ActionUnsupported     Action = "unsupported"
)

// Plan decides what signer can do for asset. A creator verifies itself; the
// update authority outside the creators list adds itself as a verified
// creator.
func Plan(asset das.Asset, signer string) Action {
	if index := asset.CreatorIndex(signer); index >= 0 {
		if asset.Creators[index].Verified {
			return ActionAlreadyVerified
		}
		return ActionVerifyCreator
	}
	if signer != "" && signer == asset.UpdateAuthority() {
		return ActionAddCreator
	}
	return ActionUnsupported
}

func (a Action) err() error {
	switch a {
	case ActionVerifyCreator, ActionAddCreator:
		return nil
	case ActionAlreadyVerified:
		return ErrAlreadyVerified
	default:
		return ErrNotAuthorized
	}
}
