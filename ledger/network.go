// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ledger

// Network describes a Cardano network
type Network struct {
	Id         uint
	Name       string
	SlotConfig SlotConfig
}

// Network definitions
var (
	NetworkMainnet = Network{
		Id:         AddressNetworkMainnet,
		Name:       "mainnet",
		SlotConfig: SlotConfigMainnet,
	}
	NetworkPreprod = Network{
		Id:         AddressNetworkTestnet,
		Name:       "preprod",
		SlotConfig: SlotConfigPreprod,
	}
	NetworkPreview = Network{
		Id:         AddressNetworkTestnet,
		Name:       "preview",
		SlotConfig: SlotConfigPreview,
	}

	// NetworkInvalid is used as a return value for lookup functions when a network isn't found
	NetworkInvalid = Network{
		Id:   0,
		Name: "invalid",
	}
)

// List of valid networks for use in lookup functions
var networks = []Network{
	NetworkMainnet,
	NetworkPreprod,
	NetworkPreview,
}

// NetworkByName returns a predefined network by name
func NetworkByName(name string) Network {
	for _, network := range networks {
		if network.Name == name {
			return network
		}
	}
	return NetworkInvalid
}
