package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/statechannels/clientsdk/msg"
)

// Typed wrappers over Call for the individual RPC methods. These shape
// params and decode results, nothing more.

// CreateChannel asks the node to create a state channel between the owners.
func (c *Client) CreateChannel(ctx context.Context, owners []string) (msg.CreateChannelResult, error) {
	result := msg.CreateChannelResult{}
	err := c.call(ctx, msg.MethodCreateChannel, msg.CreateChannelParams{Owners: owners}, &result)
	return result, err
}

// DeployStateDepositHolder asks the node to deploy the deposit holder
// contract for the channel's multisig.
func (c *Client) DeployStateDepositHolder(ctx context.Context, multisigAddress string) error {
	return c.call(ctx, msg.MethodDeployStateDepositHolder, msg.DeployStateDepositHolderParams{MultisigAddress: multisigAddress}, nil)
}

// Deposit deposits the amount into the channel.
func (c *Client) Deposit(ctx context.Context, multisigAddress, amount string) error {
	return c.call(ctx, msg.MethodDeposit, msg.DepositParams{MultisigAddress: multisigAddress, Amount: amount}, nil)
}

// Withdraw withdraws the amount from the channel to the recipient.
func (c *Client) Withdraw(ctx context.Context, multisigAddress, amount, recipient string) error {
	return c.call(ctx, msg.MethodWithdraw, msg.WithdrawParams{MultisigAddress: multisigAddress, Amount: amount, Recipient: recipient}, nil)
}

// GetFreeBalanceState returns the free balance of each owner in the channel.
func (c *Client) GetFreeBalanceState(ctx context.Context, multisigAddress string) (msg.FreeBalanceState, error) {
	result := msg.GetFreeBalanceStateResult{}
	err := c.call(ctx, msg.MethodGetFreeBalanceState, msg.GetFreeBalanceStateParams{MultisigAddress: multisigAddress}, &result)
	return result.State, err
}

// GetAppInstance returns the record for the app instance id, resolving it
// through the registry so repeated lookups share one cached record.
func (c *Client) GetAppInstance(ctx context.Context, appInstanceID string) (msg.AppInstanceRecord, error) {
	return c.registry.GetOrCreate(ctx, appInstanceID, nil)
}

// Install accepts a proposed app instance, installing it into the channel.
func (c *Client) Install(ctx context.Context, appInstanceID string) (msg.AppInstanceRecord, error) {
	result := msg.InstallResult{}
	err := c.call(ctx, msg.MethodInstall, msg.InstallParams{AppInstanceID: appInstanceID}, &result)
	if err != nil {
		return msg.AppInstanceRecord{}, err
	}
	if result.AppInstance == nil {
		return msg.AppInstanceRecord{}, fmt.Errorf("install result for %s carries no app instance", appInstanceID)
	}
	return c.registry.GetOrCreate(ctx, result.AppInstance.IdentityHash, result.AppInstance)
}

// InstallVirtual accepts a proposed app instance routed through the
// intermediary rather than a direct channel.
func (c *Client) InstallVirtual(ctx context.Context, appInstanceID, intermediary string) (msg.AppInstanceRecord, error) {
	result := msg.InstallResult{}
	params := msg.InstallVirtualParams{AppInstanceID: appInstanceID, IntermediaryIdentifier: intermediary}
	err := c.call(ctx, msg.MethodInstallVirtual, params, &result)
	if err != nil {
		return msg.AppInstanceRecord{}, err
	}
	if result.AppInstance == nil {
		return msg.AppInstanceRecord{}, fmt.Errorf("install result for %s carries no app instance", appInstanceID)
	}
	return c.registry.GetOrCreate(ctx, result.AppInstance.IdentityHash, result.AppInstance)
}

// RejectInstall declines a proposed app instance.
func (c *Client) RejectInstall(ctx context.Context, appInstanceID string) error {
	return c.call(ctx, msg.MethodRejectInstall, msg.RejectInstallParams{AppInstanceID: appInstanceID}, nil)
}

// call issues the request and decodes the result payload into out when out is
// non-nil.
func (c *Client) call(ctx context.Context, method msg.Method, params, out interface{}) error {
	payload, err := c.Call(ctx, method, params)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	err = json.Unmarshal(payload, out)
	if err != nil {
		return fmt.Errorf("decoding %s result: %w", method, err)
	}
	return nil
}
