package msg

import "encoding/json"

// Params and result shapes for the individual RPC methods. These are thin
// shapes over the node's JSON and carry no behavior.

type CreateChannelParams struct {
	Owners []string `json:"owners"`
}

type CreateChannelResult struct {
	Type            string   `json:"type"`
	MultisigAddress string   `json:"multisigAddress"`
	Owners          []string `json:"owners,omitempty"`
}

type DeployStateDepositHolderParams struct {
	MultisigAddress string `json:"multisigAddress"`
	RetryCount      int    `json:"retryCount,omitempty"`
}

type DepositParams struct {
	MultisigAddress string `json:"multisigAddress"`
	Amount          string `json:"amount"`
	AssetID         string `json:"assetId,omitempty"`
}

type WithdrawParams struct {
	MultisigAddress string `json:"multisigAddress"`
	Amount          string `json:"amount"`
	Recipient       string `json:"recipient,omitempty"`
}

type GetFreeBalanceStateParams struct {
	MultisigAddress string `json:"multisigAddress"`
}

// FreeBalanceState maps each owner address to its free balance.
type FreeBalanceState map[string]string

type GetFreeBalanceStateResult struct {
	Type  string           `json:"type"`
	State FreeBalanceState `json:"state"`
}

type GetAppInstanceDetailsParams struct {
	AppInstanceID string `json:"appInstanceId"`
}

type GetAppInstanceDetailsResult struct {
	Type        string             `json:"type"`
	AppInstance *AppInstanceRecord `json:"appInstance"`
}

type InstallParams struct {
	AppInstanceID string `json:"appInstanceId"`
}

type InstallVirtualParams struct {
	AppInstanceID          string `json:"appInstanceId"`
	IntermediaryIdentifier string `json:"intermediaryIdentifier,omitempty"`
}

type InstallResult struct {
	Type        string             `json:"type"`
	AppInstance *AppInstanceRecord `json:"appInstance"`
}

type RejectInstallParams struct {
	AppInstanceID string `json:"appInstanceId"`
}

// InstallEventData is the data payload of an install event. The app instance
// id sits directly in the data for direct installs.
type InstallEventData struct {
	AppInstanceID string `json:"appInstanceId"`
}

// InstallVirtualEventData is the data payload of a virtual install event. The
// app instance id sits one level deeper, under a secondary params field.
type InstallVirtualEventData struct {
	Params InstallEventData `json:"params"`
}

// RejectInstallEventData is the data payload of a reject-install event. The
// installation never completed node-side, so the payload carries the full
// instance details rather than an id to resolve.
type RejectInstallEventData struct {
	AppInstance *AppInstanceRecord `json:"appInstance"`
}

// OrphanedResponseEventData is the data payload of the error event the client
// synthesizes when a correlated response arrives with no pending request.
type OrphanedResponseEventData struct {
	Name string          `json:"name"`
	ID   uint64          `json:"id"`
	Raw  json.RawMessage `json:"raw,omitempty"`
}
