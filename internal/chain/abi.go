package chain

// vaultBondTraderABI is the VaultBondTrader contract interface consumed by
// this client. Amounts, prices, and reputations cross the boundary as opaque
// ciphertext bytes; the verifier checks the accompanying proof on-chain.
const vaultBondTraderABI = `[
  {"type":"function","name":"executeTrade","stateMutability":"payable","inputs":[
    {"name":"bondId","type":"uint256"},
    {"name":"amount","type":"bytes"},
    {"name":"price","type":"bytes"},
    {"name":"isBuy","type":"bool"},
    {"name":"inputProof","type":"bytes"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"createBond","stateMutability":"nonpayable","inputs":[
    {"name":"_issuer","type":"string"},
    {"name":"_symbol","type":"string"},
    {"name":"_faceValue","type":"uint256"},
    {"name":"_couponRate","type":"uint256"},
    {"name":"_maturityDate","type":"uint256"},
    {"name":"_totalSupply","type":"uint256"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"updateBondPrice","stateMutability":"nonpayable","inputs":[
    {"name":"bondId","type":"uint256"},
    {"name":"newPrice","type":"bytes"},
    {"name":"inputProof","type":"bytes"}],
   "outputs":[]},
  {"type":"function","name":"deactivateBond","stateMutability":"nonpayable","inputs":[
    {"name":"bondId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"verifyBond","stateMutability":"nonpayable","inputs":[
    {"name":"bondId","type":"uint256"},
    {"name":"isVerified","type":"bool"}],"outputs":[]},
  {"type":"function","name":"updateReputation","stateMutability":"nonpayable","inputs":[
    {"name":"user","type":"address"},
    {"name":"reputation","type":"bytes"},
    {"name":"isIssuer","type":"bool"}],"outputs":[]},
  {"type":"function","name":"getBondInfo","stateMutability":"view","inputs":[
    {"name":"bondId","type":"uint256"}],
   "outputs":[
    {"name":"issuer","type":"string"},
    {"name":"symbol","type":"string"},
    {"name":"faceValue","type":"uint8"},
    {"name":"couponRate","type":"uint8"},
    {"name":"maturityDate","type":"uint8"},
    {"name":"currentPrice","type":"uint8"},
    {"name":"totalSupply","type":"uint8"},
    {"name":"availableSupply","type":"uint8"},
    {"name":"isActive","type":"bool"},
    {"name":"isVerified","type":"bool"},
    {"name":"issuerAddress","type":"address"},
    {"name":"creationTime","type":"uint256"}]},
  {"type":"function","name":"getMarketStats","stateMutability":"view","inputs":[],
   "outputs":[
    {"name":"totalVolume","type":"uint8"},
    {"name":"activeBonds","type":"uint8"},
    {"name":"totalTrades","type":"uint8"},
    {"name":"averageYield","type":"uint8"}]},
  {"type":"function","name":"getPortfolioInfo","stateMutability":"view","inputs":[
    {"name":"trader","type":"address"}],
   "outputs":[
    {"name":"totalValue","type":"uint8"},
    {"name":"totalYield","type":"uint8"},
    {"name":"bondCount","type":"uint8"}]},
  {"type":"function","name":"getIssuerReputation","stateMutability":"view","inputs":[
    {"name":"issuer","type":"address"}],"outputs":[{"name":"","type":"uint8"}]},
  {"type":"function","name":"getTraderReputation","stateMutability":"view","inputs":[
    {"name":"trader","type":"address"}],"outputs":[{"name":"","type":"uint8"}]},
  {"type":"function","name":"getTradeInfo","stateMutability":"view","inputs":[
    {"name":"tradeId","type":"uint256"}],
   "outputs":[
    {"name":"bondId","type":"uint8"},
    {"name":"amount","type":"uint8"},
    {"name":"price","type":"uint8"},
    {"name":"trader","type":"address"},
    {"name":"isBuy","type":"bool"},
    {"name":"timestamp","type":"uint256"}]},
  {"type":"event","name":"TradeExecuted","inputs":[
    {"name":"tradeId","type":"uint256","indexed":true},
    {"name":"bondId","type":"uint256","indexed":true},
    {"name":"trader","type":"address","indexed":true},
    {"name":"isBuy","type":"bool","indexed":false}],"anonymous":false}
]`
